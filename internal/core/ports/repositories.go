package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"vidtube/internal/core/domain"
)

// CRUD is the contract every entity repository satisfies. UpdateByID returns
// the post-update state; DeleteByID returns the pre-delete state so callers
// can cascade cleanup (e.g. deleting a removed video's media).
type CRUD[T any] interface {
	Create(ctx context.Context, entity *T) (*T, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	FindOne(ctx context.Context, filter bson.D) (*T, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.D) (*T, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	Aggregate(ctx context.Context, pipeline mongo.Pipeline, results interface{}) error
}

type UserRepository interface {
	CRUD[domain.User]
}

type VideoRepository interface {
	CRUD[domain.Video]
}

type CommentRepository interface {
	CRUD[domain.Comment]
}

type TweetRepository interface {
	CRUD[domain.Tweet]
}

type PlaylistRepository interface {
	CRUD[domain.Playlist]
}

// LikeRepository adds the atomic conditional delete required by
// toggle-by-existence: DeleteWhere removes the first row matching filter and
// returns it, or domain.ErrNotFound when nothing matched. No separate
// existence check happens, so two concurrent toggles cannot both observe
// "absent" and insert duplicates.
type LikeRepository interface {
	CRUD[domain.Like]
	DeleteWhere(ctx context.Context, filter bson.D) (*domain.Like, error)
}

// SubscriptionRepository mirrors LikeRepository's toggle contract.
type SubscriptionRepository interface {
	CRUD[domain.Subscription]
	DeleteWhere(ctx context.Context, filter bson.D) (*domain.Subscription, error)
}
