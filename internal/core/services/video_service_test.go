package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtube/internal/core/domain"
	"vidtube/internal/core/ports"
	"vidtube/internal/core/query"
	apperrors "vidtube/pkg/errors"
)

func TestVideoService_Publish_RequiresFiles(t *testing.T) {
	videos := new(mockVideoRepo)
	media := new(mockMediaStorage)
	svc := NewVideoService(videos, new(mockUserRepo), media)

	_, err := svc.Publish(context.Background(), PublishVideoInput{
		Title:       "My video",
		Description: "about things",
		Owner:       primitive.NewObjectID(),
	})

	assertCode(t, err, apperrors.ErrCodeInvalidArgument)
	media.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestVideoService_Publish_UsesProbedDuration(t *testing.T) {
	videos := new(mockVideoRepo)
	media := new(mockMediaStorage)
	svc := NewVideoService(videos, new(mockUserRepo), media)

	media.On("Upload", mock.Anything, "/tmp/clip.mp4").Return(ports.UploadResult{
		Ref:      domain.MediaRef{URL: "https://cdn/clip.mp4", PublicID: "clip-1"},
		Duration: 93.5,
	}, nil)
	media.On("Upload", mock.Anything, "/tmp/thumb.png").Return(ports.UploadResult{
		Ref: domain.MediaRef{URL: "https://cdn/thumb.png", PublicID: "thumb-1"},
	}, nil)
	videos.On("Create", mock.Anything, mock.MatchedBy(func(v *domain.Video) bool {
		return v.Duration == 93.5 && v.IsPublished
	})).Return(&domain.Video{ID: primitive.NewObjectID(), Duration: 93.5}, nil)

	created, err := svc.Publish(context.Background(), PublishVideoInput{
		Title:         "My video",
		Description:   "about things",
		VideoPath:     "/tmp/clip.mp4",
		ThumbnailPath: "/tmp/thumb.png",
		Duration:      10, // client-declared value loses to the probe
		Owner:         primitive.NewObjectID(),
	})

	assert.NoError(t, err)
	assert.Equal(t, 93.5, created.Duration)
}

func TestVideoService_Get_UnknownVideo(t *testing.T) {
	videos := new(mockVideoRepo)
	svc := NewVideoService(videos, new(mockUserRepo), new(mockMediaStorage))

	videos.On("Aggregate", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Get(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID())
	assertCode(t, err, apperrors.ErrCodeNotFound)
}

func TestVideoService_Get_CountsViewAndRecordsHistory(t *testing.T) {
	videos := new(mockVideoRepo)
	users := new(mockUserRepo)
	svc := NewVideoService(videos, users, new(mockMediaStorage))

	videoID := primitive.NewObjectID()
	viewer := primitive.NewObjectID()

	videos.On("Aggregate", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		out := args.Get(2).(*[]domain.VideoWithOwner)
		*out = append(*out, domain.VideoWithOwner{
			Video: domain.Video{ID: videoID, Title: "clip", Views: 4},
		})
	}).Return(nil)
	videos.On("UpdateByID", mock.Anything, videoID, mock.Anything).Return(&domain.Video{ID: videoID}, nil)
	users.On("UpdateByID", mock.Anything, viewer, mock.Anything).Return(&domain.User{ID: viewer}, nil)

	got, err := svc.Get(context.Background(), videoID.Hex(), viewer)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), got.Views)
	videos.AssertCalled(t, "UpdateByID", mock.Anything, videoID, mock.Anything)
	users.AssertCalled(t, "UpdateByID", mock.Anything, viewer, mock.Anything)
}

func TestVideoService_Get_MalformedID(t *testing.T) {
	svc := NewVideoService(new(mockVideoRepo), new(mockUserRepo), new(mockMediaStorage))

	_, err := svc.Get(context.Background(), "not-an-id", primitive.NewObjectID())
	assertCode(t, err, apperrors.ErrCodeInvalidArgument)
}

func TestVideoService_Update_NonOwnerForbidden(t *testing.T) {
	videos := new(mockVideoRepo)
	svc := NewVideoService(videos, new(mockUserRepo), new(mockMediaStorage))

	videoID := primitive.NewObjectID()
	videos.On("FindByID", mock.Anything, videoID).Return(&domain.Video{
		ID:    videoID,
		Owner: primitive.NewObjectID(),
	}, nil)

	_, err := svc.Update(context.Background(), videoID.Hex(), primitive.NewObjectID(), UpdateVideoInput{Title: "new title"})
	assertCode(t, err, apperrors.ErrCodeForbidden)
	videos.AssertNotCalled(t, "UpdateByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestVideoService_Delete_CascadesMediaCleanup(t *testing.T) {
	videos := new(mockVideoRepo)
	media := new(mockMediaStorage)
	svc := NewVideoService(videos, new(mockUserRepo), media)

	owner := primitive.NewObjectID()
	videoID := primitive.NewObjectID()
	video := &domain.Video{
		ID:        videoID,
		Owner:     owner,
		VideoFile: domain.MediaRef{URL: "https://cdn/clip.mp4", PublicID: "clip-1"},
		Thumbnail: domain.MediaRef{URL: "https://cdn/thumb.png", PublicID: "thumb-1"},
	}
	videos.On("FindByID", mock.Anything, videoID).Return(video, nil)
	videos.On("DeleteByID", mock.Anything, videoID).Return(video, nil)
	media.On("Delete", mock.Anything, "clip-1").Return(nil)
	media.On("Delete", mock.Anything, "thumb-1").Return(nil)

	err := svc.Delete(context.Background(), videoID.Hex(), owner)
	assert.NoError(t, err)
	media.AssertExpectations(t)
}

func TestVideoService_Delete_NonOwnerForbidden(t *testing.T) {
	videos := new(mockVideoRepo)
	svc := NewVideoService(videos, new(mockUserRepo), new(mockMediaStorage))

	videoID := primitive.NewObjectID()
	videos.On("FindByID", mock.Anything, videoID).Return(&domain.Video{
		ID:    videoID,
		Owner: primitive.NewObjectID(),
	}, nil)

	err := svc.Delete(context.Background(), videoID.Hex(), primitive.NewObjectID())
	assertCode(t, err, apperrors.ErrCodeForbidden)
	videos.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

func TestVideoService_TogglePublish_FlipsFlag(t *testing.T) {
	videos := new(mockVideoRepo)
	svc := NewVideoService(videos, new(mockUserRepo), new(mockMediaStorage))

	owner := primitive.NewObjectID()
	videoID := primitive.NewObjectID()
	videos.On("FindByID", mock.Anything, videoID).Return(&domain.Video{
		ID:          videoID,
		Owner:       owner,
		IsPublished: true,
	}, nil)
	videos.On("UpdateByID", mock.Anything, videoID, mock.Anything).Return(&domain.Video{
		ID:          videoID,
		Owner:       owner,
		IsPublished: false,
	}, nil)

	updated, err := svc.TogglePublish(context.Background(), videoID.Hex(), owner)
	assert.NoError(t, err)
	assert.False(t, updated.IsPublished)
}

func TestVideoService_List_RejectsUnknownSortField(t *testing.T) {
	svc := NewVideoService(new(mockVideoRepo), new(mockUserRepo), new(mockMediaStorage))

	_, err := svc.List(context.Background(), ListVideosInput{
		SortBy: "password",
		Page:   query.PageRequest{Page: 1, Limit: 10},
	})
	assertCode(t, err, apperrors.ErrCodeInvalidArgument)
}

func TestVideoService_List_RejectsMalformedOwnerFilter(t *testing.T) {
	svc := NewVideoService(new(mockVideoRepo), new(mockUserRepo), new(mockMediaStorage))

	_, err := svc.List(context.Background(), ListVideosInput{
		UserID: "zzz",
		Page:   query.PageRequest{Page: 1, Limit: 10},
	})
	assertCode(t, err, apperrors.ErrCodeInvalidArgument)
}
