package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"vidtube/internal/core/domain"
	"vidtube/internal/core/ports"
	"vidtube/internal/core/query"
)

func pageRequest(page, limit int64) query.PageRequest {
	return query.PageRequest{Page: page, Limit: limit}
}

// mockRepo is a testify mock over the generic repository contract. Typed
// aliases below pin the entity type per test subject.
type mockRepo[T any] struct {
	mock.Mock
}

func (m *mockRepo[T]) Create(ctx context.Context, entity *T) (*T, error) {
	args := m.Called(ctx, entity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *mockRepo[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *mockRepo[T]) FindOne(ctx context.Context, filter bson.D) (*T, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *mockRepo[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.D) (*T, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *mockRepo[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *mockRepo[T]) Aggregate(ctx context.Context, pipeline mongo.Pipeline, results interface{}) error {
	args := m.Called(ctx, pipeline, results)
	return args.Error(0)
}

type mockUserRepo = mockRepo[domain.User]
type mockVideoRepo = mockRepo[domain.Video]
type mockCommentRepo = mockRepo[domain.Comment]
type mockTweetRepo = mockRepo[domain.Tweet]
type mockPlaylistRepo = mockRepo[domain.Playlist]

type mockLikeRepo struct {
	mockRepo[domain.Like]
}

func (m *mockLikeRepo) DeleteWhere(ctx context.Context, filter bson.D) (*domain.Like, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Like), args.Error(1)
}

type mockSubscriptionRepo struct {
	mockRepo[domain.Subscription]
}

func (m *mockSubscriptionRepo) DeleteWhere(ctx context.Context, filter bson.D) (*domain.Subscription, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

type mockMediaStorage struct {
	mock.Mock
}

func (m *mockMediaStorage) Upload(ctx context.Context, localPath string) (ports.UploadResult, error) {
	args := m.Called(ctx, localPath)
	return args.Get(0).(ports.UploadResult), args.Error(1)
}

func (m *mockMediaStorage) Delete(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
