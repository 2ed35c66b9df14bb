package domain

// Collection names. Join stages reference foreign collections by these
// names, so they live next to the entities rather than in the storage layer.
const (
	CollectionUsers         = "users"
	CollectionVideos        = "videos"
	CollectionComments      = "comments"
	CollectionLikes         = "likes"
	CollectionSubscriptions = "subscriptions"
	CollectionTweets        = "tweets"
	CollectionPlaylists     = "playlists"
)
