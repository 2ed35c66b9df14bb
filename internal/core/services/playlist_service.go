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

// CreatePlaylistInput carries a new playlist's fields.
type CreatePlaylistInput struct {
	Name        string
	Description string
	Owner       primitive.ObjectID
}

// UpdatePlaylistInput patches name and/or description. Empty fields are left
// untouched.
type UpdatePlaylistInput struct {
	Name        string
	Description string
}

type PlaylistService interface {
	Create(ctx context.Context, input CreatePlaylistInput) (*domain.Playlist, error)
	GetUserPlaylists(ctx context.Context, userID string) ([]domain.Playlist, error)
	Get(ctx context.Context, playlistID string) (*domain.Playlist, error)
	AddVideo(ctx context.Context, playlistID, videoID string, owner primitive.ObjectID) (*domain.Playlist, error)
	RemoveVideo(ctx context.Context, playlistID, videoID string, owner primitive.ObjectID) (*domain.Playlist, error)
	Update(ctx context.Context, playlistID string, owner primitive.ObjectID, input UpdatePlaylistInput) (*domain.Playlist, error)
	Delete(ctx context.Context, playlistID string, owner primitive.ObjectID) error
}

type playlistService struct {
	playlists ports.PlaylistRepository
	videos    ports.VideoRepository
	users     ports.UserRepository
}

func NewPlaylistService(playlists ports.PlaylistRepository, videos ports.VideoRepository, users ports.UserRepository) PlaylistService {
	return &playlistService{
		playlists: playlists,
		videos:    videos,
		users:     users,
	}
}

func (s *playlistService) Create(ctx context.Context, input CreatePlaylistInput) (*domain.Playlist, error) {
	name := utils.SanitizeString(input.Name)
	if err := validation.ValidateStringLength(name, 1, 100, "name"); err != nil {
		return nil, apperrors.NewInvalidArgumentError(err.Error())
	}
	if err := validation.ValidateNonEmptyString(input.Description, "description"); err != nil {
		return nil, apperrors.NewInvalidArgumentError(err.Error())
	}

	now := time.Now().UTC()
	playlist := &domain.Playlist{
		Name:        name,
		Description: utils.SanitizeString(input.Description),
		Videos:      []primitive.ObjectID{},
		Owner:       input.Owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := s.playlists.Create(ctx, playlist)
	if err != nil {
		return nil, repoError(err, "playlist")
	}
	return created, nil
}

func (s *playlistService) GetUserPlaylists(ctx context.Context, userID string) ([]domain.Playlist, error) {
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
		return nil, apperrors.NewInternalError("failed to build playlist pipeline")
	}

	var playlists []domain.Playlist
	if err := s.playlists.Aggregate(ctx, pipeline, &playlists); err != nil {
		return nil, repoError(err, "playlist")
	}
	return playlists, nil
}

func (s *playlistService) Get(ctx context.Context, playlistID string) (*domain.Playlist, error) {
	id, err := parseID(playlistID, "playlist ID")
	if err != nil {
		return nil, err
	}
	playlist, err := s.playlists.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "playlist")
	}
	return playlist, nil
}

// AddVideo appends the video reference. Order is insertion order and the same
// video may appear more than once.
func (s *playlistService) AddVideo(ctx context.Context, playlistID, videoID string, owner primitive.ObjectID) (*domain.Playlist, error) {
	pid, vid, err := s.authorize(ctx, playlistID, videoID, owner)
	if err != nil {
		return nil, err
	}

	if _, err := s.videos.FindByID(ctx, vid); err != nil {
		return nil, repoError(err, "video")
	}

	patch := bson.D{
		{Key: "$push", Value: bson.D{{Key: "videos", Value: vid}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now().UTC()}}},
	}
	updated, err := s.playlists.UpdateByID(ctx, pid, patch)
	if err != nil {
		return nil, repoError(err, "playlist")
	}
	return updated, nil
}

// RemoveVideo pulls every occurrence of the video reference. Removing a video
// not in the playlist is a no-op, not an error.
func (s *playlistService) RemoveVideo(ctx context.Context, playlistID, videoID string, owner primitive.ObjectID) (*domain.Playlist, error) {
	pid, vid, err := s.authorize(ctx, playlistID, videoID, owner)
	if err != nil {
		return nil, err
	}

	patch := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "videos", Value: vid}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now().UTC()}}},
	}
	updated, err := s.playlists.UpdateByID(ctx, pid, patch)
	if err != nil {
		return nil, repoError(err, "playlist")
	}
	return updated, nil
}

func (s *playlistService) Update(ctx context.Context, playlistID string, owner primitive.ObjectID, input UpdatePlaylistInput) (*domain.Playlist, error) {
	id, err := parseID(playlistID, "playlist ID")
	if err != nil {
		return nil, err
	}
	if utils.IsEmpty(input.Name) && utils.IsEmpty(input.Description) {
		return nil, apperrors.NewInvalidArgumentError("nothing to update")
	}

	playlist, err := s.playlists.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "playlist")
	}
	if playlist.Owner != owner {
		return nil, apperrors.NewForbiddenError("only the owner can update this playlist")
	}

	set := bson.D{{Key: "updated_at", Value: time.Now().UTC()}}
	if !utils.IsEmpty(input.Name) {
		set = append(set, bson.E{Key: "name", Value: utils.SanitizeString(input.Name)})
	}
	if !utils.IsEmpty(input.Description) {
		set = append(set, bson.E{Key: "description", Value: utils.SanitizeString(input.Description)})
	}

	updated, err := s.playlists.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return nil, repoError(err, "playlist")
	}
	return updated, nil
}

func (s *playlistService) Delete(ctx context.Context, playlistID string, owner primitive.ObjectID) error {
	id, err := parseID(playlistID, "playlist ID")
	if err != nil {
		return err
	}

	playlist, err := s.playlists.FindByID(ctx, id)
	if err != nil {
		return repoError(err, "playlist")
	}
	if playlist.Owner != owner {
		return apperrors.NewForbiddenError("only the owner can delete this playlist")
	}

	if _, err := s.playlists.DeleteByID(ctx, id); err != nil {
		return repoError(err, "playlist")
	}
	return nil
}

// authorize parses both identifiers, loads the playlist and checks ownership.
func (s *playlistService) authorize(ctx context.Context, playlistID, videoID string, owner primitive.ObjectID) (primitive.ObjectID, primitive.ObjectID, error) {
	pid, err := parseID(playlistID, "playlist ID")
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	vid, err := parseID(videoID, "video ID")
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}

	playlist, err := s.playlists.FindByID(ctx, pid)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, repoError(err, "playlist")
	}
	if playlist.Owner != owner {
		return primitive.NilObjectID, primitive.NilObjectID, apperrors.NewForbiddenError("only the owner can modify this playlist")
	}
	return pid, vid, nil
}
