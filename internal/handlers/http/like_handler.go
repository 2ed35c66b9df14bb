package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/internal/core/domain"
	"vidtube/internal/core/services"
	"vidtube/internal/infrastructure/monitoring"
)

type LikeHandler struct {
	likes   services.LikeService
	metrics *monitoring.PrometheusCollector
}

func NewLikeHandler(likes services.LikeService, metrics *monitoring.PrometheusCollector) *LikeHandler {
	return &LikeHandler{likes: likes, metrics: metrics}
}

func (h *LikeHandler) toggleMessage(outcome domain.ToggleOutcome) string {
	if outcome == domain.ToggleAdded {
		return "liked successfully"
	}
	return "like removed successfully"
}

func (h *LikeHandler) ToggleVideoLike(c *gin.Context) {
	likedBy, ok := requireUser(c)
	if !ok {
		return
	}
	outcome, err := h.likes.ToggleVideoLike(c.Request.Context(), c.Param("videoId"), likedBy)
	if err != nil {
		fail(c, err)
		return
	}
	h.metrics.RecordToggle("video_like", outcome)
	respond(c, http.StatusOK, gin.H{"outcome": outcome}, h.toggleMessage(outcome))
}

func (h *LikeHandler) ToggleCommentLike(c *gin.Context) {
	likedBy, ok := requireUser(c)
	if !ok {
		return
	}
	outcome, err := h.likes.ToggleCommentLike(c.Request.Context(), c.Param("commentId"), likedBy)
	if err != nil {
		fail(c, err)
		return
	}
	h.metrics.RecordToggle("comment_like", outcome)
	respond(c, http.StatusOK, gin.H{"outcome": outcome}, h.toggleMessage(outcome))
}

func (h *LikeHandler) ToggleTweetLike(c *gin.Context) {
	likedBy, ok := requireUser(c)
	if !ok {
		return
	}
	outcome, err := h.likes.ToggleTweetLike(c.Request.Context(), c.Param("tweetId"), likedBy)
	if err != nil {
		fail(c, err)
		return
	}
	h.metrics.RecordToggle("tweet_like", outcome)
	respond(c, http.StatusOK, gin.H{"outcome": outcome}, h.toggleMessage(outcome))
}

func (h *LikeHandler) GetLikedVideos(c *gin.Context) {
	likedBy, ok := requireUser(c)
	if !ok {
		return
	}
	videos, err := h.likes.GetLikedVideos(c.Request.Context(), likedBy)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, videos, "liked videos fetched successfully")
}
