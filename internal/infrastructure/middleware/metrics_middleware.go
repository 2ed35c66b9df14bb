package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"vidtube/internal/infrastructure/monitoring"
)

// MetricsMiddleware records request counts, latency and in-flight gauge.
func MetricsMiddleware(collector *monitoring.PrometheusCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		collector.RequestStarted()
		start := time.Now()

		c.Next()

		collector.RequestFinished()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		collector.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
