package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"vidtube/internal/core/ports"
)

type HealthHandler struct {
	mongoClient *mongo.Client
	cache       ports.Cache
}

func NewHealthHandler(mongoClient *mongo.Client, cache ports.Cache) *HealthHandler {
	return &HealthHandler{mongoClient: mongoClient, cache: cache}
}

// Check reports liveness of the process and its backing stores. Degraded
// dependencies flip the overall status but still return a body, so operators
// see which check failed.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if err := h.mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		checks["mongo"] = "down: " + err.Error()
		healthy = false
	} else {
		checks["mongo"] = "up"
	}

	if h.cache != nil {
		if _, err := h.cache.Get(ctx, "health:probe"); err != nil && !errors.Is(err, ports.ErrCacheMiss) {
			checks["redis"] = "down: " + err.Error()
			healthy = false
		} else {
			checks["redis"] = "up"
		}
	}

	status := http.StatusOK
	overall := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status": overall,
		"checks": checks,
		"time":   time.Now().UTC(),
	})
}
