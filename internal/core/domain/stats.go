package domain

// ChannelStats aggregates a channel's totals for the dashboard. Counts are
// computed from aggregation pipelines and may lag concurrent writes.
type ChannelStats struct {
	TotalViews       int64 `json:"total_views"`
	TotalSubscribers int64 `json:"total_subscribers"`
	TotalLikes       int64 `json:"total_likes"`
	TotalVideos      int64 `json:"total_videos"`
}

// VideoWithLikes is a channel video annotated with its like count.
type VideoWithLikes struct {
	Video      `bson:",inline"`
	TotalLikes int64 `bson:"total_likes" json:"total_likes"`
}
