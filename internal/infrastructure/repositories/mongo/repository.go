// Package mongo implements the repository ports on MongoDB collections. One
// generic repository covers the shared CRUD surface; the engagement
// repositories add the atomic conditional delete used by toggles.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vidtube/internal/core/domain"
	"vidtube/internal/core/ports"
	"vidtube/pkg/tracing"
)

// Repository is the generic MongoDB-backed implementation of ports.CRUD.
type Repository[T any] struct {
	collection *mongo.Collection
}

func newRepository[T any](db *mongo.Database, collection string) *Repository[T] {
	return &Repository[T]{collection: db.Collection(collection)}
}

func (r *Repository[T]) Create(ctx context.Context, entity *T) (*T, error) {
	ctx, span := tracing.TraceDatabaseOperation(ctx, "insert", r.collection.Name())
	defer span.End()

	res, err := r.collection.InsertOne(ctx, entity)
	if err != nil {
		return nil, mapError(err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted ID type %T", res.InsertedID)
	}
	return r.FindByID(ctx, id)
}

func (r *Repository[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return r.FindOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *Repository[T]) FindOne(ctx context.Context, filter bson.D) (*T, error) {
	ctx, span := tracing.TraceDatabaseOperation(ctx, "find_one", r.collection.Name())
	defer span.End()

	var entity T
	if err := r.collection.FindOne(ctx, filter).Decode(&entity); err != nil {
		return nil, mapError(err)
	}
	return &entity, nil
}

// UpdateByID applies the patch and returns the post-update document.
func (r *Repository[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.D) (*T, error) {
	ctx, span := tracing.TraceDatabaseOperation(ctx, "update", r.collection.Name())
	defer span.End()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var entity T
	err := r.collection.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, patch, opts).Decode(&entity)
	if err != nil {
		return nil, mapError(err)
	}
	return &entity, nil
}

// DeleteByID removes the document and returns its pre-delete state.
func (r *Repository[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	ctx, span := tracing.TraceDatabaseOperation(ctx, "delete", r.collection.Name())
	defer span.End()

	var entity T
	if err := r.collection.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&entity); err != nil {
		return nil, mapError(err)
	}
	return &entity, nil
}

func (r *Repository[T]) Aggregate(ctx context.Context, pipeline mongo.Pipeline, results interface{}) error {
	ctx, span := tracing.TraceDatabaseOperation(ctx, "aggregate", r.collection.Name())
	defer span.End()

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return mapError(err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, results); err != nil {
		return mapError(err)
	}
	return nil
}

// deleteWhere removes the first document matching filter and returns it.
// FindOneAndDelete makes the check-and-remove a single atomic step.
func deleteWhere[T any](ctx context.Context, c *mongo.Collection, filter bson.D) (*T, error) {
	ctx, span := tracing.TraceDatabaseOperation(ctx, "delete_where", c.Name())
	defer span.End()

	var entity T
	if err := c.FindOneAndDelete(ctx, filter).Decode(&entity); err != nil {
		return nil, mapError(err)
	}
	return &entity, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrDuplicateKey
	default:
		return err
	}
}

// UserRepository and friends pin the generic repository to one collection.

type UserRepository struct {
	*Repository[domain.User]
}

func NewUserRepository(db *mongo.Database) ports.UserRepository {
	return &UserRepository{newRepository[domain.User](db, domain.CollectionUsers)}
}

type VideoRepository struct {
	*Repository[domain.Video]
}

func NewVideoRepository(db *mongo.Database) ports.VideoRepository {
	return &VideoRepository{newRepository[domain.Video](db, domain.CollectionVideos)}
}

type CommentRepository struct {
	*Repository[domain.Comment]
}

func NewCommentRepository(db *mongo.Database) ports.CommentRepository {
	return &CommentRepository{newRepository[domain.Comment](db, domain.CollectionComments)}
}

type TweetRepository struct {
	*Repository[domain.Tweet]
}

func NewTweetRepository(db *mongo.Database) ports.TweetRepository {
	return &TweetRepository{newRepository[domain.Tweet](db, domain.CollectionTweets)}
}

type PlaylistRepository struct {
	*Repository[domain.Playlist]
}

func NewPlaylistRepository(db *mongo.Database) ports.PlaylistRepository {
	return &PlaylistRepository{newRepository[domain.Playlist](db, domain.CollectionPlaylists)}
}

type LikeRepository struct {
	*Repository[domain.Like]
}

func NewLikeRepository(db *mongo.Database) ports.LikeRepository {
	return &LikeRepository{newRepository[domain.Like](db, domain.CollectionLikes)}
}

func (r *LikeRepository) DeleteWhere(ctx context.Context, filter bson.D) (*domain.Like, error) {
	return deleteWhere[domain.Like](ctx, r.collection, filter)
}

type SubscriptionRepository struct {
	*Repository[domain.Subscription]
}

func NewSubscriptionRepository(db *mongo.Database) ports.SubscriptionRepository {
	return &SubscriptionRepository{newRepository[domain.Subscription](db, domain.CollectionSubscriptions)}
}

func (r *SubscriptionRepository) DeleteWhere(ctx context.Context, filter bson.D) (*domain.Subscription, error) {
	return deleteWhere[domain.Subscription](ctx, r.collection, filter)
}
