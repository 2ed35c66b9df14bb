package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vidtube/internal/core/services"
	"vidtube/internal/infrastructure/middleware"
	apperrors "vidtube/pkg/errors"
	"vidtube/pkg/validation"
)

type VideoHandler struct {
	videos services.VideoService
	limits PaginationLimits
}

func NewVideoHandler(videos services.VideoService, limits PaginationLimits) *VideoHandler {
	return &VideoHandler{videos: videos, limits: limits}
}

func (h *VideoHandler) List(c *gin.Context) {
	sortType := c.DefaultQuery("sortType", "desc")
	if err := validation.ValidateSortType(sortType); err != nil {
		fail(c, apperrors.NewInvalidArgumentError(err.Error()))
		return
	}

	page, err := h.videos.List(c.Request.Context(), services.ListVideosInput{
		Query:    c.Query("query"),
		UserID:   c.Query("userId"),
		SortBy:   c.Query("sortBy"),
		SortDesc: sortType == "desc",
		Page:     parsePageRequest(c, h.limits),
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, page, "videos fetched successfully")
}

func (h *VideoHandler) Publish(c *gin.Context) {
	owner, ok := requireUser(c)
	if !ok {
		return
	}

	videoPath, err := saveUploadedFile(c, "videoFile")
	if err != nil {
		fail(c, err)
		return
	}
	thumbnailPath, err := saveUploadedFile(c, "thumbnail")
	if err != nil {
		fail(c, err)
		return
	}

	duration, _ := strconv.ParseFloat(c.PostForm("duration"), 64)

	video, err := h.videos.Publish(c.Request.Context(), services.PublishVideoInput{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
		Duration:      duration,
		Owner:         owner,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, video, "video published successfully")
}

func (h *VideoHandler) Get(c *gin.Context) {
	video, err := h.videos.Get(c.Request.Context(), c.Param("videoId"), middleware.CurrentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, video, "video fetched successfully")
}

func (h *VideoHandler) Update(c *gin.Context) {
	owner, ok := requireUser(c)
	if !ok {
		return
	}

	thumbnailPath, err := saveUploadedFile(c, "thumbnail")
	if err != nil {
		fail(c, err)
		return
	}

	video, err := h.videos.Update(c.Request.Context(), c.Param("videoId"), owner, services.UpdateVideoInput{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, video, "video updated successfully")
}

func (h *VideoHandler) Delete(c *gin.Context) {
	owner, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.videos.Delete(c.Request.Context(), c.Param("videoId"), owner); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "video deleted successfully")
}

func (h *VideoHandler) TogglePublish(c *gin.Context) {
	owner, ok := requireUser(c)
	if !ok {
		return
	}
	video, err := h.videos.TogglePublish(c.Request.Context(), c.Param("videoId"), owner)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, video, "publish status toggled successfully")
}
