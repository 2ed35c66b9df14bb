package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtube/internal/core/domain"
	"vidtube/internal/core/ports"
	"vidtube/internal/core/query"
	apperrors "vidtube/pkg/errors"
	"vidtube/pkg/utils"
	"vidtube/pkg/validation"
)

const maxTweetLength = 280

type TweetService interface {
	Create(ctx context.Context, owner primitive.ObjectID, content string) (*domain.Tweet, error)
	GetUserTweets(ctx context.Context, userID string) ([]domain.Tweet, error)
	Update(ctx context.Context, tweetID string, owner primitive.ObjectID, content string) (*domain.Tweet, error)
	Delete(ctx context.Context, tweetID string, owner primitive.ObjectID) error
}

type tweetService struct {
	tweets ports.TweetRepository
	users  ports.UserRepository
}

func NewTweetService(tweets ports.TweetRepository, users ports.UserRepository) TweetService {
	return &tweetService{
		tweets: tweets,
		users:  users,
	}
}

func (s *tweetService) Create(ctx context.Context, owner primitive.ObjectID, content string) (*domain.Tweet, error) {
	content = utils.SanitizeString(content)
	if err := validation.ValidateStringLength(content, 1, maxTweetLength, "content"); err != nil {
		return nil, apperrors.NewInvalidArgumentError(err.Error())
	}

	now := time.Now().UTC()
	tweet := &domain.Tweet{
		Content:   content,
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.tweets.Create(ctx, tweet)
	if err != nil {
		return nil, repoError(err, "tweet")
	}
	return created, nil
}

func (s *tweetService) GetUserTweets(ctx context.Context, userID string) ([]domain.Tweet, error) {
	id, err := parseID(userID, "user ID")
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return nil, repoError(err, "user")
	}

	pipeline, err := query.NewBuilder().
		Match(query.EqID("owner", id)).
		Sort("created_at", true).
		Build()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build tweet pipeline")
	}

	var tweets []domain.Tweet
	if err := s.tweets.Aggregate(ctx, pipeline, &tweets); err != nil {
		return nil, repoError(err, "tweet")
	}
	return tweets, nil
}

func (s *tweetService) Update(ctx context.Context, tweetID string, owner primitive.ObjectID, content string) (*domain.Tweet, error) {
	id, err := parseID(tweetID, "tweet ID")
	if err != nil {
		return nil, err
	}
	content = utils.SanitizeString(content)
	if err := validation.ValidateStringLength(content, 1, maxTweetLength, "content"); err != nil {
		return nil, apperrors.NewInvalidArgumentError(err.Error())
	}

	tweet, err := s.tweets.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "tweet")
	}
	if tweet.Owner != owner {
		return nil, apperrors.NewForbiddenError("only the author can update this tweet")
	}

	patch := bson.D{{Key: "$set", Value: bson.D{
		{Key: "content", Value: content},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	updated, err := s.tweets.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, repoError(err, "tweet")
	}
	return updated, nil
}

func (s *tweetService) Delete(ctx context.Context, tweetID string, owner primitive.ObjectID) error {
	id, err := parseID(tweetID, "tweet ID")
	if err != nil {
		return err
	}

	tweet, err := s.tweets.FindByID(ctx, id)
	if err != nil {
		return repoError(err, "tweet")
	}
	if tweet.Owner != owner {
		return apperrors.NewForbiddenError("only the author can delete this tweet")
	}

	if _, err := s.tweets.DeleteByID(ctx, id); err != nil {
		return repoError(err, "tweet")
	}
	return nil
}
