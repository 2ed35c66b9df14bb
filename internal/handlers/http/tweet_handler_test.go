package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"vidtube/internal/core/domain"
	"vidtube/internal/infrastructure/middleware"
	apperrors "vidtube/pkg/errors"
)

type mockTweetService struct {
	mock.Mock
}

func (m *mockTweetService) Create(ctx context.Context, owner primitive.ObjectID, content string) (*domain.Tweet, error) {
	args := m.Called(ctx, owner, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tweet), args.Error(1)
}

func (m *mockTweetService) GetUserTweets(ctx context.Context, userID string) ([]domain.Tweet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tweet), args.Error(1)
}

func (m *mockTweetService) Update(ctx context.Context, tweetID string, owner primitive.ObjectID, content string) (*domain.Tweet, error) {
	args := m.Called(ctx, tweetID, owner, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tweet), args.Error(1)
}

func (m *mockTweetService) Delete(ctx context.Context, tweetID string, owner primitive.ObjectID) error {
	args := m.Called(ctx, tweetID, owner)
	return args.Error(0)
}

// newTweetRouter mirrors the production middleware order for the tweet routes
// so tests observe the same envelope clients do.
func newTweetRouter(service *mockTweetService, userID primitive.ObjectID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandlerMiddleware(zap.NewNop().Sugar()))
	router.Use(func(c *gin.Context) {
		if !userID.IsZero() {
			c.Set(middleware.ContextUserIDKey, userID)
		}
		c.Next()
	})

	handler := NewTweetHandler(service)
	router.POST("/tweets", handler.Create)
	router.PATCH("/tweets/:tweetId", handler.Update)
	router.DELETE("/tweets/:tweetId", handler.Delete)
	return router
}

func decodeEnvelope(t *testing.T, body *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	assert.NoError(t, json.Unmarshal(body.Body.Bytes(), &env))
	return env
}

func TestTweetCreateReturnsCreatedEnvelope(t *testing.T) {
	owner := primitive.NewObjectID()
	service := new(mockTweetService)
	service.On("Create", mock.Anything, owner, "hello world").
		Return(&domain.Tweet{ID: primitive.NewObjectID(), Content: "hello world", Owner: owner}, nil)

	router := newTweetRouter(service, owner)
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tweets", strings.NewReader(`{"content":"hello world"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	env := decodeEnvelope(t, recorder)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusCreated, env.StatusCode)
	service.AssertExpectations(t)
}

func TestTweetCreateWithoutPrincipalIsUnauthorized(t *testing.T) {
	service := new(mockTweetService)

	router := newTweetRouter(service, primitive.NilObjectID)
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tweets", strings.NewReader(`{"content":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	env := decodeEnvelope(t, recorder)
	assert.False(t, env.Success)
	service.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestTweetCreateRejectsMalformedBody(t *testing.T) {
	owner := primitive.NewObjectID()
	service := new(mockTweetService)

	router := newTweetRouter(service, owner)
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tweets", strings.NewReader(`{"content":`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	env := decodeEnvelope(t, recorder)
	assert.False(t, env.Success)
}

func TestTweetUpdateForbiddenErrorKeepsEnvelopeShape(t *testing.T) {
	owner := primitive.NewObjectID()
	service := new(mockTweetService)
	service.On("Update", mock.Anything, mock.Anything, owner, "patched").
		Return(nil, apperrors.NewForbiddenError("only the author can update this tweet"))

	router := newTweetRouter(service, owner)
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/tweets/"+primitive.NewObjectID().Hex(), strings.NewReader(`{"content":"patched"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	env := decodeEnvelope(t, recorder)
	assert.False(t, env.Success)
	assert.Equal(t, http.StatusForbidden, env.StatusCode)
	assert.Equal(t, "only the author can update this tweet", env.Message)
}

func TestTweetDeleteSucceeds(t *testing.T) {
	owner := primitive.NewObjectID()
	tweetID := primitive.NewObjectID().Hex()
	service := new(mockTweetService)
	service.On("Delete", mock.Anything, tweetID, owner).Return(nil)

	router := newTweetRouter(service, owner)
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/tweets/"+tweetID, nil)
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	service.AssertExpectations(t)
}
