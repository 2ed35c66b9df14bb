package services

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtube/internal/core/domain"
	"vidtube/internal/core/ports"
	"vidtube/internal/core/query"
	apperrors "vidtube/pkg/errors"
)

type DashboardService interface {
	GetChannelStats(ctx context.Context, owner primitive.ObjectID) (*domain.ChannelStats, error)
	GetChannelVideos(ctx context.Context, owner primitive.ObjectID, page query.PageRequest) (*query.Page[domain.VideoWithLikes], error)
}

type dashboardService struct {
	videos        ports.VideoRepository
	subscriptions ports.SubscriptionRepository
	likes         ports.LikeRepository
}

func NewDashboardService(videos ports.VideoRepository, subscriptions ports.SubscriptionRepository, likes ports.LikeRepository) DashboardService {
	return &dashboardService{
		videos:        videos,
		subscriptions: subscriptions,
		likes:         likes,
	}
}

// GetChannelStats computes each total with its own aggregation. The counts
// come from separate snapshots, so they may disagree slightly under
// concurrent writes.
func (s *dashboardService) GetChannelStats(ctx context.Context, owner primitive.ObjectID) (*domain.ChannelStats, error) {
	ownerFilter := query.EqID("owner", owner)

	totalViews, err := sumOver(ctx, s.videos, ownerFilter, "$views")
	if err != nil {
		return nil, err
	}
	totalVideos, err := sumOver(ctx, s.videos, ownerFilter, 1)
	if err != nil {
		return nil, err
	}
	totalSubscribers, err := sumOver(ctx, s.subscriptions, query.EqID("channel", owner), 1)
	if err != nil {
		return nil, err
	}

	// Likes point at videos, not owners, so the owner's video IDs are
	// resolved first and the like rows matched against that set.
	videoIDs, err := s.ownedVideoIDs(ctx, owner)
	if err != nil {
		return nil, err
	}
	totalLikes := int64(0)
	if len(videoIDs) > 0 {
		inVideos := bson.D{{Key: "video", Value: bson.D{{Key: "$in", Value: videoIDs}}}}
		totalLikes, err = sumOver(ctx, s.likes, inVideos, 1)
		if err != nil {
			return nil, err
		}
	}

	return &domain.ChannelStats{
		TotalViews:       totalViews,
		TotalSubscribers: totalSubscribers,
		TotalLikes:       totalLikes,
		TotalVideos:      totalVideos,
	}, nil
}

func (s *dashboardService) GetChannelVideos(ctx context.Context, owner primitive.ObjectID, page query.PageRequest) (*query.Page[domain.VideoWithLikes], error) {
	pipeline, err := query.NewBuilder().
		Match(query.EqID("owner", owner)).
		Sort("created_at", true).
		Join(domain.CollectionLikes, "_id", "video", "likes").
		ComputeField("total_likes", query.SizeExpr{Field: "likes"}).
		Build()
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to build channel videos pipeline", http.StatusInternalServerError)
	}

	return query.Paginate[domain.VideoWithLikes](ctx, s.videos, pipeline, page)
}

func (s *dashboardService) ownedVideoIDs(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error) {
	pipeline, err := query.NewBuilder().
		Match(query.EqID("owner", owner)).
		Reshape(query.ProjectField{Name: "_id"}).
		Build()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build video id pipeline")
	}

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := s.videos.Aggregate(ctx, pipeline, &rows); err != nil {
		return nil, repoError(err, "video")
	}

	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

// sumOver runs a match + sum pipeline against any runner. Passing the literal
// 1 counts rows; passing "$field" sums that field. An empty match yields 0.
func sumOver(ctx context.Context, runner query.Runner, filter bson.D, value interface{}) (int64, error) {
	pipeline, err := query.NewBuilder().
		Match(filter).
		ComputeField("total", query.SumExpr{Value: value}).
		Build()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build sum pipeline")
	}

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := runner.Aggregate(ctx, pipeline, &rows); err != nil {
		return 0, apperrors.WrapError(err, apperrors.ErrCodeInternal, "aggregation failed", http.StatusInternalServerError)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
