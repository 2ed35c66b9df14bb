package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vidtube/internal/core/ports"
	"vidtube/internal/core/services"
	httphandlers "vidtube/internal/handlers/http"
	"vidtube/internal/infrastructure/cache"
	"vidtube/internal/infrastructure/media"
	"vidtube/internal/infrastructure/monitoring"
	mongorepo "vidtube/internal/infrastructure/repositories/mongo"
	"vidtube/pkg/config"
	"vidtube/pkg/logger"
	"vidtube/pkg/tracing"
)

const statsCacheTTL = 30 * time.Second

func main() {
	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"config.yaml",
	}

	var cfg *config.Config
	var err error
	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	logg := zapLogger.Sugar()

	tracerProvider, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "vidtube",
		JaegerURL:   cfg.Tracing.JaegerURL,
		Environment: cfg.Tracing.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		logg.Fatalw("failed to initialize tracing", "error", err)
	}

	mongoClient, err := mongorepo.NewClient(cfg.Mongo.URI, cfg.Mongo.ConnectTimeout, logg)
	if err != nil {
		logg.Fatalw("failed to connect to MongoDB", "error", err)
	}
	db := mongoClient.Database(cfg.Mongo.Database)

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	if err := mongorepo.EnsureIndexes(indexCtx, db); err != nil {
		cancelIndexes()
		logg.Fatalw("failed to create indexes", "error", err)
	}
	cancelIndexes()

	userRepo := mongorepo.NewUserRepository(db)
	videoRepo := mongorepo.NewVideoRepository(db)
	commentRepo := mongorepo.NewCommentRepository(db)
	tweetRepo := mongorepo.NewTweetRepository(db)
	playlistRepo := mongorepo.NewPlaylistRepository(db)
	likeRepo := mongorepo.NewLikeRepository(db)
	subscriptionRepo := mongorepo.NewSubscriptionRepository(db)

	mediaStorage, err := media.NewMinioAdapter(media.Config{
		Endpoint:  cfg.Media.Endpoint,
		AccessKey: cfg.Media.AccessKey,
		SecretKey: cfg.Media.SecretKey,
		Bucket:    cfg.Media.Bucket,
		UseSSL:    cfg.Media.UseSSL,
		PublicURL: cfg.Media.PublicURL,
	}, logg)
	if err != nil {
		logg.Fatalw("failed to initialize media storage", "error", err)
	}

	var appCache ports.Cache
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize, logg)
		if err != nil {
			logg.Fatalw("failed to connect to Redis", "error", err)
		}
		defer redisClient.Close()
		appCache = cache.NewRedisCache(redisClient)
	}

	tokenService := services.NewTokenService(
		cfg.Auth.AccessTokenSecret,
		cfg.Auth.RefreshTokenSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)
	userService := services.NewUserService(userRepo, mediaStorage, tokenService)
	videoService := services.NewVideoService(videoRepo, userRepo, mediaStorage)
	commentService := services.NewCommentService(commentRepo, videoRepo)
	likeService := services.NewLikeService(likeRepo, videoRepo, commentRepo, tweetRepo)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, userRepo)
	tweetService := services.NewTweetService(tweetRepo, userRepo)
	playlistService := services.NewPlaylistService(playlistRepo, videoRepo, userRepo)

	dashboardService := services.NewDashboardService(videoRepo, subscriptionRepo, likeRepo)
	if appCache != nil {
		dashboardService = services.NewCachedDashboardService(dashboardService, appCache, statsCacheTTL)
	}

	collector := monitoring.NewPrometheusCollector()

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httphandlers.NewRouter(httphandlers.RouterDeps{
		Config:        cfg,
		Logger:        logg,
		Metrics:       collector,
		Tokens:        tokenService,
		UserRepo:      userRepo,
		Users:         userService,
		Videos:        videoService,
		Comments:      commentService,
		Likes:         likeService,
		Subscriptions: subscriptionService,
		Tweets:        tweetService,
		Playlists:     playlistService,
		Dashboard:     dashboardService,
		Health:        httphandlers.NewHealthHandler(mongoClient, appCache),
	})

	if cfg.Monitoring.PrometheusEnabled {
		go func() {
			addr := fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort)
			logg.Infow("starting metrics server", "address", addr)
			if err := http.ListenAndServe(addr, promhttp.Handler()); err != nil && err != http.ErrServerClosed {
				logg.Errorw("metrics server failed", "error", err)
			}
		}()
	}

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logg.Infow("starting API server", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Errorw("server shutdown failed", "error", err)
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		logg.Errorw("tracer shutdown failed", "error", err)
	}
	if err := mongorepo.CloseClient(mongoClient, cfg.Server.ShutdownTimeout); err != nil {
		logg.Errorw("mongo disconnect failed", "error", err)
	}
	logg.Infow("shutdown complete")
}
