package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vidtube/pkg/errors"
)

// ErrorHandlerMiddleware is the single point where application errors become
// HTTP responses. Handlers attach errors with c.Error and never write error
// bodies themselves.
func ErrorHandlerMiddleware(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		appErr := errors.GetAppError(err)
		if appErr != nil {
			logFn := logger.Warnw
			if appErr.HTTPStatus >= http.StatusInternalServerError {
				logFn = logger.Errorw
			}
			logFn("request failed",
				"code", appErr.Code,
				"message", appErr.Message,
				"status", appErr.HTTPStatus,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"cause", appErr.Cause,
			)

			c.JSON(appErr.HTTPStatus, gin.H{
				"status_code": appErr.HTTPStatus,
				"data":        nil,
				"message":     appErr.Message,
				"errors":      appErr.Details,
				"success":     false,
			})
			return
		}

		logger.Errorw("unhandled error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status_code": http.StatusInternalServerError,
			"data":        nil,
			"message":     "internal server error",
			"success":     false,
		})
	}
}

// RecoveryMiddleware turns panics into the standard error envelope.
func RecoveryMiddleware(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorw("panic recovered",
					"error", r,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"status_code": http.StatusInternalServerError,
					"data":        nil,
					"message":     "internal server error",
					"success":     false,
				})
			}
		}()

		c.Next()
	}
}
