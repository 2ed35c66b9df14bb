package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/internal/core/services"
	apperrors "vidtube/pkg/errors"
)

type TweetHandler struct {
	tweets services.TweetService
}

func NewTweetHandler(tweets services.TweetService) *TweetHandler {
	return &TweetHandler{tweets: tweets}
}

func (h *TweetHandler) Create(c *gin.Context) {
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

	tweet, err := h.tweets.Create(c.Request.Context(), owner, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, tweet, "tweet created successfully")
}

func (h *TweetHandler) GetUserTweets(c *gin.Context) {
	tweets, err := h.tweets.GetUserTweets(c.Request.Context(), c.Param("userId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, tweets, "tweets fetched successfully")
}

func (h *TweetHandler) Update(c *gin.Context) {
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

	tweet, err := h.tweets.Update(c.Request.Context(), c.Param("tweetId"), owner, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, tweet, "tweet updated successfully")
}

func (h *TweetHandler) Delete(c *gin.Context) {
	owner, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.tweets.Delete(c.Request.Context(), c.Param("tweetId"), owner); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "tweet deleted successfully")
}
