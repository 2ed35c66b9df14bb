package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/internal/core/services"
	apperrors "vidtube/pkg/errors"
)

type CommentHandler struct {
	comments services.CommentService
	limits   PaginationLimits
}

func NewCommentHandler(comments services.CommentService, limits PaginationLimits) *CommentHandler {
	return &CommentHandler{comments: comments, limits: limits}
}

func (h *CommentHandler) ListForVideo(c *gin.Context) {
	page, err := h.comments.ListForVideo(c.Request.Context(), c.Param("videoId"), parsePageRequest(c, h.limits))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, page, "comments fetched successfully")
}

func (h *CommentHandler) Add(c *gin.Context) {
	owner, ok := requireUser(c)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.NewInvalidArgumentError("invalid request body"))
		return
	}

	comment, err := h.comments.Add(c.Request.Context(), c.Param("videoId"), owner, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, comment, "comment added successfully")
}

func (h *CommentHandler) Update(c *gin.Context) {
	owner, ok := requireUser(c)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.NewInvalidArgumentError("invalid request body"))
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), c.Param("commentId"), owner, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, comment, "comment updated successfully")
}

func (h *CommentHandler) Delete(c *gin.Context) {
	owner, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.comments.Delete(c.Request.Context(), c.Param("commentId"), owner); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "comment deleted successfully")
}
