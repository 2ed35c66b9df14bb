package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"vidtube/pkg/config"
)

func rateLimitTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(cfg))
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRateLimitAllowsWithinBurst(t *testing.T) {
	cfg := &config.Config{}
	cfg.RateLimiting.Enabled = true
	cfg.RateLimiting.RequestsPerSecond = 1
	cfg.RateLimiting.Burst = 3

	router := rateLimitTestRouter(cfg)
	for i := 0; i < 3; i++ {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusOK, recorder.Code)
	}
}

func TestRateLimitRejectsBeyondBurst(t *testing.T) {
	cfg := &config.Config{}
	cfg.RateLimiting.Enabled = true
	cfg.RateLimiting.RequestsPerSecond = 1
	cfg.RateLimiting.Burst = 2

	router := rateLimitTestRouter(cfg)
	var last int
	for i := 0; i < 3; i++ {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		router.ServeHTTP(recorder, req)
		last = recorder.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestRateLimitTracksClientsSeparately(t *testing.T) {
	cfg := &config.Config{}
	cfg.RateLimiting.Enabled = true
	cfg.RateLimiting.RequestsPerSecond = 1
	cfg.RateLimiting.Burst = 1

	router := rateLimitTestRouter(cfg)

	first := httptest.NewRecorder()
	reqA := httptest.NewRequest(http.MethodGet, "/ping", nil)
	reqA.RemoteAddr = "10.0.0.3:1234"
	router.ServeHTTP(first, reqA)
	assert.Equal(t, http.StatusOK, first.Code)

	exhausted := httptest.NewRecorder()
	router.ServeHTTP(exhausted, reqA)
	assert.Equal(t, http.StatusTooManyRequests, exhausted.Code)

	other := httptest.NewRecorder()
	reqB := httptest.NewRequest(http.MethodGet, "/ping", nil)
	reqB.RemoteAddr = "10.0.0.4:1234"
	router.ServeHTTP(other, reqB)
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	cfg := &config.Config{}
	cfg.RateLimiting.Enabled = false

	router := rateLimitTestRouter(cfg)
	for i := 0; i < 10; i++ {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.5:1234"
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusOK, recorder.Code)
	}
}
