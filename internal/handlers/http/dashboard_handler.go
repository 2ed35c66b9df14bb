package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/internal/core/services"
)

type DashboardHandler struct {
	dashboard services.DashboardService
	limits    PaginationLimits
}

func NewDashboardHandler(dashboard services.DashboardService, limits PaginationLimits) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, limits: limits}
}

func (h *DashboardHandler) GetChannelStats(c *gin.Context) {
	owner, ok := requireUser(c)
	if !ok {
		return
	}
	stats, err := h.dashboard.GetChannelStats(c.Request.Context(), owner)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, stats, "channel stats fetched successfully")
}

func (h *DashboardHandler) GetChannelVideos(c *gin.Context) {
	owner, ok := requireUser(c)
	if !ok {
		return
	}
	page, err := h.dashboard.GetChannelVideos(c.Request.Context(), owner, parsePageRequest(c, h.limits))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, page, "channel videos fetched successfully")
}
