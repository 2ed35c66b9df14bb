package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtube/internal/core/domain"
	"vidtube/internal/core/ports"
	"vidtube/internal/core/query"
	apperrors "vidtube/pkg/errors"
)

type LikeService interface {
	ToggleVideoLike(ctx context.Context, videoID string, likedBy primitive.ObjectID) (domain.ToggleOutcome, error)
	ToggleCommentLike(ctx context.Context, commentID string, likedBy primitive.ObjectID) (domain.ToggleOutcome, error)
	ToggleTweetLike(ctx context.Context, tweetID string, likedBy primitive.ObjectID) (domain.ToggleOutcome, error)
	GetLikedVideos(ctx context.Context, likedBy primitive.ObjectID) ([]domain.LikedVideo, error)
}

type likeService struct {
	likes    ports.LikeRepository
	videos   ports.VideoRepository
	comments ports.CommentRepository
	tweets   ports.TweetRepository
}

func NewLikeService(likes ports.LikeRepository, videos ports.VideoRepository, comments ports.CommentRepository, tweets ports.TweetRepository) LikeService {
	return &likeService{
		likes:    likes,
		videos:   videos,
		comments: comments,
		tweets:   tweets,
	}
}

func (s *likeService) ToggleVideoLike(ctx context.Context, videoID string, likedBy primitive.ObjectID) (domain.ToggleOutcome, error) {
	id, err := parseID(videoID, "video ID")
	if err != nil {
		return "", err
	}
	if _, err := s.videos.FindByID(ctx, id); err != nil {
		return "", repoError(err, "video")
	}
	return s.toggle(ctx, bson.E{Key: "video", Value: id}, likedBy)
}

func (s *likeService) ToggleCommentLike(ctx context.Context, commentID string, likedBy primitive.ObjectID) (domain.ToggleOutcome, error) {
	id, err := parseID(commentID, "comment ID")
	if err != nil {
		return "", err
	}
	if _, err := s.comments.FindByID(ctx, id); err != nil {
		return "", repoError(err, "comment")
	}
	return s.toggle(ctx, bson.E{Key: "comment", Value: id}, likedBy)
}

func (s *likeService) ToggleTweetLike(ctx context.Context, tweetID string, likedBy primitive.ObjectID) (domain.ToggleOutcome, error) {
	id, err := parseID(tweetID, "tweet ID")
	if err != nil {
		return "", err
	}
	if _, err := s.tweets.FindByID(ctx, id); err != nil {
		return "", repoError(err, "tweet")
	}
	return s.toggle(ctx, bson.E{Key: "tweet", Value: id}, likedBy)
}

// toggle removes the like row if it exists, otherwise inserts one. The remove
// path is an atomic conditional delete, so two concurrent toggles resolve to
// one delete and one insert rather than a duplicate pair.
func (s *likeService) toggle(ctx context.Context, target bson.E, likedBy primitive.ObjectID) (domain.ToggleOutcome, error) {
	filter := bson.D{target, {Key: "liked_by", Value: likedBy}}

	_, err := s.likes.DeleteWhere(ctx, filter)
	if err == nil {
		return domain.ToggleRemoved, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", repoError(err, "like")
	}

	like := &domain.Like{
		LikedBy:   likedBy,
		CreatedAt: time.Now().UTC(),
	}
	switch target.Key {
	case "video":
		like.Video = target.Value.(primitive.ObjectID)
	case "comment":
		like.Comment = target.Value.(primitive.ObjectID)
	case "tweet":
		like.Tweet = target.Value.(primitive.ObjectID)
	}

	if _, err := s.likes.Create(ctx, like); err != nil {
		return "", repoError(err, "like")
	}
	return domain.ToggleAdded, nil
}

func (s *likeService) GetLikedVideos(ctx context.Context, likedBy primitive.ObjectID) ([]domain.LikedVideo, error) {
	filter := query.And(
		query.EqID("liked_by", likedBy),
		query.Eq("video", bson.D{{Key: "$exists", Value: true}}),
	)

	pipeline, err := query.NewBuilder().
		Match(filter).
		Sort("created_at", true).
		Join(domain.CollectionVideos, "video", "_id", "video",
			query.JoinStage{
				From:         domain.CollectionUsers,
				LocalField:   "owner",
				ForeignField: "_id",
				As:           "owner_profile",
			},
			query.ComputeFieldStage{Name: "owner_profile", Expr: query.FirstExpr{Field: "owner_profile"}},
		).
		ComputeField("video", query.FirstExpr{Field: "video"}).
		Build()
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to build liked videos pipeline", http.StatusInternalServerError)
	}

	var results []domain.LikedVideo
	if err := s.likes.Aggregate(ctx, pipeline, &results); err != nil {
		return nil, repoError(err, "like")
	}
	return results, nil
}
