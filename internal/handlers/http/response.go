// Package http contains the gin handlers for the REST API. Handlers bind and
// parse requests, call services, and write the uniform response envelope;
// errors are attached to the context and rendered by the error middleware.
package http

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtube/internal/core/query"
	"vidtube/internal/infrastructure/middleware"
	apperrors "vidtube/pkg/errors"
)

// envelope is the response shape every endpoint returns.
type envelope struct {
	StatusCode int         `json:"status_code"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < 400,
	})
}

// fail hands the error to the error middleware. Handlers return immediately
// after calling it.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// PaginationLimits caps client-supplied page sizes.
type PaginationLimits struct {
	DefaultLimit int
	MaxLimit     int
}

// parsePageRequest reads page and limit query parameters. Absent values fall
// back to defaults; malformed or oversized values are clamped rather than
// rejected.
func parsePageRequest(c *gin.Context, limits PaginationLimits) query.PageRequest {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", strconv.Itoa(limits.DefaultLimit)), 10, 64)
	if err != nil || limit < 1 {
		limit = int64(limits.DefaultLimit)
	}
	if limit > int64(limits.MaxLimit) {
		limit = int64(limits.MaxLimit)
	}

	return query.PageRequest{Page: page, Limit: limit}
}

// requireUser fetches the authenticated principal's ID. The auth middleware
// guarantees it on protected routes; a miss means a wiring bug.
func requireUser(c *gin.Context) (primitive.ObjectID, bool) {
	id := middleware.CurrentUserID(c)
	if id.IsZero() {
		fail(c, apperrors.NewUnauthorizedError("authentication required"))
		return primitive.NilObjectID, false
	}
	return id, true
}

// saveUploadedFile writes a multipart file to a unique temp path and returns
// that path. The media adapter removes the file after upload.
func saveUploadedFile(c *gin.Context, field string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", nil // absent is not an error; callers decide if required
	}

	dst := filepath.Join(os.TempDir(), fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(fileHeader.Filename)))
	if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
		return "", apperrors.NewInternalError("failed to store uploaded file")
	}
	return dst, nil
}
