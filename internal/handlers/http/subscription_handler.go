package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/internal/core/domain"
	"vidtube/internal/core/services"
	"vidtube/internal/infrastructure/monitoring"
)

type SubscriptionHandler struct {
	subscriptions services.SubscriptionService
	metrics       *monitoring.PrometheusCollector
	limits        PaginationLimits
}

func NewSubscriptionHandler(subscriptions services.SubscriptionService, metrics *monitoring.PrometheusCollector, limits PaginationLimits) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions, metrics: metrics, limits: limits}
}

func (h *SubscriptionHandler) Toggle(c *gin.Context) {
	subscriber, ok := requireUser(c)
	if !ok {
		return
	}
	outcome, err := h.subscriptions.ToggleSubscription(c.Request.Context(), c.Param("channelId"), subscriber)
	if err != nil {
		fail(c, err)
		return
	}
	h.metrics.RecordToggle("subscription", outcome)

	message := "subscribed successfully"
	if outcome == domain.ToggleRemoved {
		message = "unsubscribed successfully"
	}
	respond(c, http.StatusOK, gin.H{"outcome": outcome}, message)
}

func (h *SubscriptionHandler) GetChannelSubscribers(c *gin.Context) {
	subscribers, err := h.subscriptions.GetChannelSubscribers(c.Request.Context(), c.Param("channelId"), parsePageRequest(c, h.limits))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, subscribers, "subscribers fetched successfully")
}

func (h *SubscriptionHandler) GetSubscribedChannels(c *gin.Context) {
	channels, err := h.subscriptions.GetSubscribedChannels(c.Request.Context(), c.Param("subscriberId"), parsePageRequest(c, h.limits))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, channels, "subscribed channels fetched successfully")
}
