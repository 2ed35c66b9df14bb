package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/internal/core/services"
	apperrors "vidtube/pkg/errors"
)

type PlaylistHandler struct {
	playlists services.PlaylistService
}

func NewPlaylistHandler(playlists services.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists}
}

func (h *PlaylistHandler) Create(c *gin.Context) {
	owner, ok := requireUser(c)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.NewInvalidArgumentError("invalid request body"))
		return
	}

	playlist, err := h.playlists.Create(c.Request.Context(), services.CreatePlaylistInput{
		Name:        req.Name,
		Description: req.Description,
		Owner:       owner,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, playlist, "playlist created successfully")
}

func (h *PlaylistHandler) GetUserPlaylists(c *gin.Context) {
	playlists, err := h.playlists.GetUserPlaylists(c.Request.Context(), c.Param("userId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, playlists, "playlists fetched successfully")
}

func (h *PlaylistHandler) Get(c *gin.Context) {
	playlist, err := h.playlists.Get(c.Request.Context(), c.Param("playlistId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "playlist fetched successfully")
}

func (h *PlaylistHandler) AddVideo(c *gin.Context) {
	owner, ok := requireUser(c)
	if !ok {
		return
	}
	playlist, err := h.playlists.AddVideo(c.Request.Context(), c.Param("playlistId"), c.Param("videoId"), owner)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "video added to playlist successfully")
}

func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	owner, ok := requireUser(c)
	if !ok {
		return
	}
	playlist, err := h.playlists.RemoveVideo(c.Request.Context(), c.Param("playlistId"), c.Param("videoId"), owner)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "video removed from playlist successfully")
}

func (h *PlaylistHandler) Update(c *gin.Context) {
	owner, ok := requireUser(c)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.NewInvalidArgumentError("invalid request body"))
		return
	}

	playlist, err := h.playlists.Update(c.Request.Context(), c.Param("playlistId"), owner, services.UpdatePlaylistInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "playlist updated successfully")
}

func (h *PlaylistHandler) Delete(c *gin.Context) {
	owner, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.playlists.Delete(c.Request.Context(), c.Param("playlistId"), owner); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "playlist deleted successfully")
}
