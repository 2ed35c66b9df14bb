package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtube/internal/core/domain"
	"vidtube/internal/core/ports"
	"vidtube/internal/core/query"
)

// CachedDashboardService wraps DashboardService with a TTL cache on the stats
// read. Video listings stay uncached because pagination makes the key space
// unbounded. Cache failures fall through to the base service.
type CachedDashboardService struct {
	baseService DashboardService
	cache       ports.Cache
	statsTTL    time.Duration
}

func NewCachedDashboardService(baseService DashboardService, cache ports.Cache, statsTTL time.Duration) DashboardService {
	return &CachedDashboardService{
		baseService: baseService,
		cache:       cache,
		statsTTL:    statsTTL,
	}
}

func (s *CachedDashboardService) GetChannelStats(ctx context.Context, owner primitive.ObjectID) (*domain.ChannelStats, error) {
	cacheKey := fmt.Sprintf("dashboard:stats:%s", owner.Hex())

	if raw, err := s.cache.Get(ctx, cacheKey); err == nil {
		var stats domain.ChannelStats
		if err := json.Unmarshal(raw, &stats); err == nil {
			return &stats, nil
		}
	} else if !errors.Is(err, ports.ErrCacheMiss) {
		// Degraded cache is not a failure; recompute instead.
		return s.baseService.GetChannelStats(ctx, owner)
	}

	stats, err := s.baseService.GetChannelStats(ctx, owner)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, cacheKey, raw, s.statsTTL)
	}
	return stats, nil
}

func (s *CachedDashboardService) GetChannelVideos(ctx context.Context, owner primitive.ObjectID, page query.PageRequest) (*query.Page[domain.VideoWithLikes], error) {
	return s.baseService.GetChannelVideos(ctx, owner, page)
}
