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

// ListVideosInput carries the listing query parameters. UserID is optional;
// empty means all owners. Query is a free-text filter over title and
// description.
type ListVideosInput struct {
	Query    string
	UserID   string
	SortBy   string
	SortDesc bool
	Page     query.PageRequest
}

// PublishVideoInput carries the new video's fields plus local temp paths of
// the uploaded files. Duration is taken from the upload result when the
// media backend probes it, otherwise from the client-declared value.
type PublishVideoInput struct {
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
	Duration      float64
	Owner         primitive.ObjectID
}

// UpdateVideoInput patches title/description and optionally replaces the
// thumbnail.
type UpdateVideoInput struct {
	Title         string
	Description   string
	ThumbnailPath string
}

type VideoService interface {
	List(ctx context.Context, input ListVideosInput) (*query.Page[domain.VideoWithOwner], error)
	Publish(ctx context.Context, input PublishVideoInput) (*domain.Video, error)
	Get(ctx context.Context, videoID string, viewer primitive.ObjectID) (*domain.VideoWithOwner, error)
	Update(ctx context.Context, videoID string, owner primitive.ObjectID, input UpdateVideoInput) (*domain.Video, error)
	Delete(ctx context.Context, videoID string, owner primitive.ObjectID) error
	TogglePublish(ctx context.Context, videoID string, owner primitive.ObjectID) (*domain.Video, error)
}

type videoService struct {
	videos ports.VideoRepository
	users  ports.UserRepository
	media  ports.MediaStorage
}

func NewVideoService(videos ports.VideoRepository, users ports.UserRepository, media ports.MediaStorage) VideoService {
	return &videoService{
		videos: videos,
		users:  users,
		media:  media,
	}
}

var videoSortFields = map[string]bool{
	"created_at": true,
	"title":      true,
	"duration":   true,
	"views":      true,
}

func (s *videoService) List(ctx context.Context, input ListVideosInput) (*query.Page[domain.VideoWithOwner], error) {
	predicates := []bson.D{query.Eq("is_published", true)}

	if input.Query != "" {
		text := utils.SanitizeString(input.Query)
		predicates = append(predicates, query.Or(
			query.Contains("title", text),
			query.Contains("description", text),
		))
	}
	if input.UserID != "" {
		ownerID, err := parseID(input.UserID, "user ID")
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, query.EqID("owner", ownerID))
	}

	sortBy := input.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	if !videoSortFields[sortBy] {
		return nil, apperrors.NewInvalidArgumentError("unsupported sort field")
	}

	pipeline, err := query.NewBuilder().
		Match(query.And(predicates...)).
		Sort(sortBy, input.SortDesc).
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
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to build video pipeline", http.StatusInternalServerError)
	}

	return query.Paginate[domain.VideoWithOwner](ctx, s.videos, pipeline, input.Page)
}

func (s *videoService) Publish(ctx context.Context, input PublishVideoInput) (*domain.Video, error) {
	if err := validation.ValidateStringLength(utils.SanitizeString(input.Title), 1, 200, "title"); err != nil {
		return nil, apperrors.NewInvalidArgumentError(err.Error())
	}
	if err := validation.ValidateNonEmptyString(input.Description, "description"); err != nil {
		return nil, apperrors.NewInvalidArgumentError(err.Error())
	}
	if input.VideoPath == "" || input.ThumbnailPath == "" {
		return nil, apperrors.NewInvalidArgumentError("video file and thumbnail are required")
	}

	videoFile, err := s.media.Upload(ctx, input.VideoPath)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to upload video file", http.StatusInternalServerError)
	}
	thumbnail, err := s.media.Upload(ctx, input.ThumbnailPath)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to upload thumbnail", http.StatusInternalServerError)
	}

	duration := videoFile.Duration
	if duration == 0 {
		duration = input.Duration
	}

	now := time.Now().UTC()
	video := &domain.Video{
		Title:       utils.SanitizeString(input.Title),
		Description: utils.SanitizeString(input.Description),
		VideoFile:   videoFile.Ref,
		Thumbnail:   thumbnail.Ref,
		Duration:    duration,
		IsPublished: true,
		Owner:       input.Owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.videos.Create(ctx, video)
	if err != nil {
		return nil, repoError(err, "video")
	}
	return created, nil
}

// Get fetches one video with its owner joined, bumps the view counter and
// records the video in the viewer's watch history.
func (s *videoService) Get(ctx context.Context, videoID string, viewer primitive.ObjectID) (*domain.VideoWithOwner, error) {
	id, err := parseID(videoID, "video ID")
	if err != nil {
		return nil, err
	}

	pipeline, err := query.NewBuilder().
		Match(query.EqID("_id", id)).
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
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to build video pipeline", http.StatusInternalServerError)
	}

	var results []domain.VideoWithOwner
	if err := s.videos.Aggregate(ctx, pipeline, &results); err != nil {
		return nil, repoError(err, "video")
	}
	if len(results) == 0 {
		return nil, apperrors.NewNotFoundError("video")
	}

	viewPatch := bson.D{{Key: "$inc", Value: bson.D{{Key: "views", Value: 1}}}}
	if _, err := s.videos.UpdateByID(ctx, id, viewPatch); err != nil {
		return nil, repoError(err, "video")
	}

	if !viewer.IsZero() {
		historyPatch := bson.D{{Key: "$addToSet", Value: bson.D{{Key: "watch_history", Value: id}}}}
		if _, err := s.users.UpdateByID(ctx, viewer, historyPatch); err != nil {
			return nil, repoError(err, "user")
		}
	}

	results[0].Views++
	return &results[0], nil
}

func (s *videoService) Update(ctx context.Context, videoID string, owner primitive.ObjectID, input UpdateVideoInput) (*domain.Video, error) {
	id, err := parseID(videoID, "video ID")
	if err != nil {
		return nil, err
	}
	if utils.IsEmpty(input.Title) && utils.IsEmpty(input.Description) && input.ThumbnailPath == "" {
		return nil, apperrors.NewInvalidArgumentError("nothing to update")
	}

	video, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "video")
	}
	if video.Owner != owner {
		return nil, apperrors.NewForbiddenError("only the owner can update this video")
	}

	set := bson.D{{Key: "updated_at", Value: time.Now().UTC()}}
	if !utils.IsEmpty(input.Title) {
		set = append(set, bson.E{Key: "title", Value: utils.SanitizeString(input.Title)})
	}
	if !utils.IsEmpty(input.Description) {
		set = append(set, bson.E{Key: "description", Value: utils.SanitizeString(input.Description)})
	}

	previousThumbnail := domain.MediaRef{}
	if input.ThumbnailPath != "" {
		uploaded, err := s.media.Upload(ctx, input.ThumbnailPath)
		if err != nil {
			return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to upload thumbnail", http.StatusInternalServerError)
		}
		set = append(set, bson.E{Key: "thumbnail", Value: uploaded.Ref})
		previousThumbnail = video.Thumbnail
	}

	updated, err := s.videos.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return nil, repoError(err, "video")
	}

	if !previousThumbnail.IsZero() {
		if err := s.media.Delete(ctx, previousThumbnail.PublicID); err != nil {
			return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to delete previous thumbnail", http.StatusInternalServerError)
		}
	}
	return updated, nil
}

// Delete removes the video document first, then cascades cleanup of both
// media objects using the pre-delete state.
func (s *videoService) Delete(ctx context.Context, videoID string, owner primitive.ObjectID) error {
	id, err := parseID(videoID, "video ID")
	if err != nil {
		return err
	}

	video, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return repoError(err, "video")
	}
	if video.Owner != owner {
		return apperrors.NewForbiddenError("only the owner can delete this video")
	}

	deleted, err := s.videos.DeleteByID(ctx, id)
	if err != nil {
		return repoError(err, "video")
	}

	if !deleted.VideoFile.IsZero() {
		if err := s.media.Delete(ctx, deleted.VideoFile.PublicID); err != nil {
			return apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to delete video file", http.StatusInternalServerError)
		}
	}
	if !deleted.Thumbnail.IsZero() {
		if err := s.media.Delete(ctx, deleted.Thumbnail.PublicID); err != nil {
			return apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to delete thumbnail", http.StatusInternalServerError)
		}
	}
	return nil
}

func (s *videoService) TogglePublish(ctx context.Context, videoID string, owner primitive.ObjectID) (*domain.Video, error) {
	id, err := parseID(videoID, "video ID")
	if err != nil {
		return nil, err
	}

	video, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "video")
	}
	if video.Owner != owner {
		return nil, apperrors.NewForbiddenError("only the owner can change publish status")
	}

	patch := bson.D{{Key: "$set", Value: bson.D{
		{Key: "is_published", Value: !video.IsPublished},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	updated, err := s.videos.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, repoError(err, "video")
	}
	return updated, nil
}
