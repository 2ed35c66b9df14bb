package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vidtube/internal/core/ports"
	"vidtube/internal/core/services"
	"vidtube/internal/infrastructure/middleware"
	"vidtube/internal/infrastructure/monitoring"
	"vidtube/pkg/config"
	"vidtube/pkg/logger"
)

// RouterDeps bundles everything the route table needs.
type RouterDeps struct {
	Config  *config.Config
	Logger  *zap.SugaredLogger
	Metrics *monitoring.PrometheusCollector

	Tokens   services.TokenService
	UserRepo ports.UserRepository

	Users         services.UserService
	Videos        services.VideoService
	Comments      services.CommentService
	Likes         services.LikeService
	Subscriptions services.SubscriptionService
	Tweets        services.TweetService
	Playlists     services.PlaylistService
	Dashboard     services.DashboardService

	Health *HealthHandler
}

// NewRouter builds the gin engine with the full middleware chain and route
// table.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggingMiddleware(logger.NewContextLogger(deps.Logger.Desugar())))
	router.Use(middleware.TracingMiddleware())
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.RateLimitMiddleware(deps.Config))
	router.Use(middleware.ErrorHandlerMiddleware(deps.Logger))

	limits := PaginationLimits{
		DefaultLimit: deps.Config.Pagination.DefaultLimit,
		MaxLimit:     deps.Config.Pagination.MaxLimit,
	}
	cookies := CookieSettings{
		Domain:        deps.Config.Auth.CookieDomain,
		Secure:        deps.Config.Auth.CookieSecure,
		AccessMaxAge:  int(deps.Config.Auth.AccessTokenTTL.Seconds()),
		RefreshMaxAge: int(deps.Config.Auth.RefreshTokenTTL.Seconds()),
	}

	userHandler := NewUserHandler(deps.Users, cookies)
	videoHandler := NewVideoHandler(deps.Videos, limits)
	commentHandler := NewCommentHandler(deps.Comments, limits)
	likeHandler := NewLikeHandler(deps.Likes, deps.Metrics)
	subscriptionHandler := NewSubscriptionHandler(deps.Subscriptions, deps.Metrics, limits)
	tweetHandler := NewTweetHandler(deps.Tweets)
	playlistHandler := NewPlaylistHandler(deps.Playlists)
	dashboardHandler := NewDashboardHandler(deps.Dashboard, limits)

	requireAuth := middleware.AuthMiddleware(deps.Tokens, deps.UserRepo)
	optionalAuth := middleware.OptionalAuthMiddleware(deps.Tokens, deps.UserRepo)

	api := router.Group("/api/v1")

	api.GET("/healthcheck", deps.Health.Check)

	users := api.Group("/users")
	{
		users.POST("/register", userHandler.Register)
		users.POST("/login", userHandler.Login)
		users.POST("/refresh-token", userHandler.RefreshToken)

		users.POST("/logout", requireAuth, userHandler.Logout)
		users.POST("/change-password", requireAuth, userHandler.ChangePassword)
		users.GET("/current-user", requireAuth, userHandler.CurrentUser)
		users.PATCH("/update-account", requireAuth, userHandler.UpdateAccount)
		users.PATCH("/avatar", requireAuth, userHandler.UpdateAvatar)
		users.PATCH("/cover-image", requireAuth, userHandler.UpdateCoverImage)
		users.GET("/c/:username", requireAuth, userHandler.GetChannelProfile)
		users.GET("/history", requireAuth, userHandler.GetWatchHistory)
	}

	videos := api.Group("/videos")
	{
		videos.GET("", optionalAuth, videoHandler.List)
		videos.POST("", requireAuth, videoHandler.Publish)
		videos.GET("/:videoId", optionalAuth, videoHandler.Get)
		videos.PATCH("/:videoId", requireAuth, videoHandler.Update)
		videos.DELETE("/:videoId", requireAuth, videoHandler.Delete)
		videos.PATCH("/toggle/publish/:videoId", requireAuth, videoHandler.TogglePublish)
	}

	comments := api.Group("/comments")
	{
		comments.GET("/:videoId", optionalAuth, commentHandler.ListForVideo)
		comments.POST("/:videoId", requireAuth, commentHandler.Add)
		comments.PATCH("/c/:commentId", requireAuth, commentHandler.Update)
		comments.DELETE("/c/:commentId", requireAuth, commentHandler.Delete)
	}

	likes := api.Group("/likes", requireAuth)
	{
		likes.POST("/toggle/v/:videoId", likeHandler.ToggleVideoLike)
		likes.POST("/toggle/c/:commentId", likeHandler.ToggleCommentLike)
		likes.POST("/toggle/t/:tweetId", likeHandler.ToggleTweetLike)
		likes.GET("/videos", likeHandler.GetLikedVideos)
	}

	subscriptions := api.Group("/subscriptions", requireAuth)
	{
		subscriptions.POST("/c/:channelId", subscriptionHandler.Toggle)
		subscriptions.GET("/c/:channelId", subscriptionHandler.GetChannelSubscribers)
		subscriptions.GET("/u/:subscriberId", subscriptionHandler.GetSubscribedChannels)
	}

	tweets := api.Group("/tweets")
	{
		tweets.POST("", requireAuth, tweetHandler.Create)
		tweets.GET("/user/:userId", optionalAuth, tweetHandler.GetUserTweets)
		tweets.PATCH("/:tweetId", requireAuth, tweetHandler.Update)
		tweets.DELETE("/:tweetId", requireAuth, tweetHandler.Delete)
	}

	playlists := api.Group("/playlist")
	{
		playlists.POST("", requireAuth, playlistHandler.Create)
		playlists.GET("/:playlistId", optionalAuth, playlistHandler.Get)
		playlists.PATCH("/:playlistId", requireAuth, playlistHandler.Update)
		playlists.DELETE("/:playlistId", requireAuth, playlistHandler.Delete)
		playlists.PATCH("/add/:videoId/:playlistId", requireAuth, playlistHandler.AddVideo)
		playlists.PATCH("/remove/:videoId/:playlistId", requireAuth, playlistHandler.RemoveVideo)
		playlists.GET("/user/:userId", optionalAuth, playlistHandler.GetUserPlaylists)
	}

	dashboard := api.Group("/dashboard", requireAuth)
	{
		dashboard.GET("/stats", dashboardHandler.GetChannelStats)
		dashboard.GET("/videos", dashboardHandler.GetChannelVideos)
	}

	return router
}
