package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vidtube/pkg/logger"
)

// RequestIDHeader is echoed back on every response so clients can correlate
// their reports with server logs.
const RequestIDHeader = "X-Request-Id"

// LoggingMiddleware assigns each request an ID, threads it through the
// request context, and emits one structured log line per request.
func LoggingMiddleware(ctxLogger *logger.ContextLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		ctx = c.Request.Context()
		if userID := CurrentUserID(c); !userID.IsZero() {
			ctx = context.WithValue(ctx, logger.UserIDKey, userID.Hex())
		}

		ctxLogger.LogRequest(ctx, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Milliseconds())
	}
}
