package services

import (
	"context"
	"net/http"
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

const maxCommentLength = 1000

type CommentService interface {
	ListForVideo(ctx context.Context, videoID string, page query.PageRequest) (*query.Page[domain.CommentWithOwner], error)
	Add(ctx context.Context, videoID string, owner primitive.ObjectID, content string) (*domain.Comment, error)
	Update(ctx context.Context, commentID string, owner primitive.ObjectID, content string) (*domain.Comment, error)
	Delete(ctx context.Context, commentID string, owner primitive.ObjectID) error
}

type commentService struct {
	comments ports.CommentRepository
	videos   ports.VideoRepository
}

func NewCommentService(comments ports.CommentRepository, videos ports.VideoRepository) CommentService {
	return &commentService{
		comments: comments,
		videos:   videos,
	}
}

func (s *commentService) ListForVideo(ctx context.Context, videoID string, page query.PageRequest) (*query.Page[domain.CommentWithOwner], error) {
	id, err := parseID(videoID, "video ID")
	if err != nil {
		return nil, err
	}

	if _, err := s.videos.FindByID(ctx, id); err != nil {
		return nil, repoError(err, "video")
	}

	pipeline, err := query.NewBuilder().
		Match(query.EqID("video", id)).
		Sort("created_at", true).
		Join(domain.CollectionUsers, "owner", "_id", "owner_profile",
			query.ReshapeStage{Fields: []query.ProjectField{
				{Name: "username"},
				{Name: "fullname"},
				{Name: "avatar"},
			}},
		).
		ComputeField("owner_profile", query.FirstExpr{Field: "owner_profile"}).
		Build()
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to build comment pipeline", http.StatusInternalServerError)
	}

	return query.Paginate[domain.CommentWithOwner](ctx, s.comments, pipeline, page)
}

func (s *commentService) Add(ctx context.Context, videoID string, owner primitive.ObjectID, content string) (*domain.Comment, error) {
	id, err := parseID(videoID, "video ID")
	if err != nil {
		return nil, err
	}
	content = utils.SanitizeString(content)
	if err := validation.ValidateStringLength(content, 1, maxCommentLength, "content"); err != nil {
		return nil, apperrors.NewInvalidArgumentError(err.Error())
	}

	if _, err := s.videos.FindByID(ctx, id); err != nil {
		return nil, repoError(err, "video")
	}

	now := time.Now().UTC()
	comment := &domain.Comment{
		Content:   content,
		Video:     id,
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.comments.Create(ctx, comment)
	if err != nil {
		return nil, repoError(err, "comment")
	}
	return created, nil
}

func (s *commentService) Update(ctx context.Context, commentID string, owner primitive.ObjectID, content string) (*domain.Comment, error) {
	id, err := parseID(commentID, "comment ID")
	if err != nil {
		return nil, err
	}
	content = utils.SanitizeString(content)
	if err := validation.ValidateStringLength(content, 1, maxCommentLength, "content"); err != nil {
		return nil, apperrors.NewInvalidArgumentError(err.Error())
	}

	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "comment")
	}
	if comment.Owner != owner {
		return nil, apperrors.NewForbiddenError("only the author can update this comment")
	}

	patch := bson.D{{Key: "$set", Value: bson.D{
		{Key: "content", Value: content},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	updated, err := s.comments.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, repoError(err, "comment")
	}
	return updated, nil
}

func (s *commentService) Delete(ctx context.Context, commentID string, owner primitive.ObjectID) error {
	id, err := parseID(commentID, "comment ID")
	if err != nil {
		return err
	}

	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return repoError(err, "comment")
	}
	if comment.Owner != owner {
		return apperrors.NewForbiddenError("only the author can delete this comment")
	}

	if _, err := s.comments.DeleteByID(ctx, id); err != nil {
		return repoError(err, "comment")
	}
	return nil
}
