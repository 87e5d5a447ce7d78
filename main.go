package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidtube/infrastructure/cache"
	"vidtube/infrastructure/configuration"
	"vidtube/infrastructure/lock"
	"vidtube/infrastructure/logger"
	"vidtube/infrastructure/persistence"
	"vidtube/infrastructure/search"
	"vidtube/infrastructure/storage"
	"vidtube/infrastructure/upload"
	httpHandler "vidtube/interfaces/http"
	"vidtube/interfaces/middleware"
	"vidtube/server"
	"vidtube/usecase"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	cfg := configuration.C
	app := cfg.App

	mongoTimeout := seconds(cfg.Database.Mongo.TimeoutSeconds)
	mongoClient, err := persistence.NewMongoDb(cfg.Database.Mongo.MongoURI(), mongoTimeout)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("MongoDB initialization failed")
		os.Exit(1)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("MongoDB ping failed")
		os.Exit(1)
	}
	logger.GetLogger().Info("MongoDB connected successfully")
	db := mongoClient.Database(cfg.Database.Mongo.Name)
	if err := persistence.EnsureIndexes(ctx, db); err != nil {
		logger.GetLogger().WithField("error", err).Error("Ensuring indexes failed")
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.RedisClient.Enabled {
		redisClient, err = cache.NewCache(
			ctx,
			fmt.Sprintf("%s:%s", cfg.RedisClient.Host, cfg.RedisClient.Port),
			cfg.RedisClient.Username,
			cfg.RedisClient.Password,
		)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing with local locks and no stats cache")
			redisClient = nil
		}
	}
	locker := lock.NewLocalLocker()
	if redisClient != nil {
		locker = lock.NewRedisLocker(redisClient, 5*time.Second)
	}
	statsCache := cache.NewStatsCache(redisClient, seconds(cfg.Cache.StatsTTLSeconds))

	media, err := storage.NewMinioStorage(ctx, storage.Options{
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		Bucket:        cfg.Storage.Bucket,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
		UseSSL:        cfg.Storage.UseSSL,
		Timeout:       seconds(cfg.Storage.TimeoutSeconds),
	}, storage.NewFFProbe(30*time.Second))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Blob store initialization failed")
		os.Exit(1)
	}

	var videoIndex search.IVideoIndex
	if cfg.Search.Enabled {
		videoIndex, err = search.NewElasticIndex(ctx, cfg.Search.URL, cfg.Search.Index, seconds(cfg.Search.TimeoutSeconds))
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Search not available - video search disabled")
			videoIndex = nil
		}
	}

	buffer, err := upload.NewBuffer(cfg.Upload.Dir, cfg.Upload.MaxSizeBytes)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Upload buffer initialization failed")
		os.Exit(1)
	}

	userRepository := persistence.NewUserRepository(db, mongoTimeout)
	videoRepository := persistence.NewVideoRepository(db, mongoTimeout)
	commentRepository := persistence.NewCommentRepository(db, mongoTimeout)
	tweetRepository := persistence.NewTweetRepository(db, mongoTimeout)
	likeRepository := persistence.NewLikeRepository(db, mongoTimeout)
	subscriptionRepository := persistence.NewSubscriptionRepository(db, mongoTimeout)
	playlistRepository := persistence.NewPlaylistRepository(db, mongoTimeout)

	userUsecase := usecase.NewUserUsecase(userRepository, media, usecase.TokenConfig{
		AccessSecret:  app.AccessTokenSecret,
		AccessTTL:     seconds(app.AccessTokenTTL),
		RefreshSecret: app.RefreshTokenSecret,
		RefreshTTL:    seconds(app.RefreshTokenTTL),
	})
	videoUsecase := usecase.NewVideoUsecase(videoRepository, userRepository, media, videoIndex, statsCache)
	commentUsecase := usecase.NewCommentUsecase(commentRepository, videoRepository)
	tweetUsecase := usecase.NewTweetUsecase(tweetRepository, userRepository)
	likeUsecase := usecase.NewLikeUsecase(likeRepository, videoRepository, commentRepository, tweetRepository, locker, statsCache)
	subscriptionUsecase := usecase.NewSubscriptionUsecase(subscriptionRepository, userRepository, locker, statsCache)
	playlistUsecase := usecase.NewPlaylistUsecase(playlistRepository, videoRepository, userRepository)
	dashboardUsecase := usecase.NewDashboardUsecase(videoRepository, statsCache)

	checks := map[string]usecase.Check{
		"mongo": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	healthUsecase := usecase.NewHealthUsecase(checks, 2*time.Second)

	if err := middleware.InitRateLimit(middleware.WriteResource, cfg.RateLimit.WritesPerSecond); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Rate limiter not initialized - write routes are unthrottled")
	}

	router := server.InitiateRouter(server.Handlers{
		User: httpHandler.NewUserHandler(userUsecase, buffer, httpHandler.CookieConfig{
			Secure:     app.TLSEnabled,
			AccessTTL:  seconds(app.AccessTokenTTL),
			RefreshTTL: seconds(app.RefreshTokenTTL),
		}),
		Video:        httpHandler.NewVideoHandler(videoUsecase, buffer),
		Comment:      httpHandler.NewCommentHandler(commentUsecase),
		Like:         httpHandler.NewLikeHandler(likeUsecase),
		Subscription: httpHandler.NewSubscriptionHandler(subscriptionUsecase),
		Tweet:        httpHandler.NewTweetHandler(tweetUsecase),
		Playlist:     httpHandler.NewPlaylistHandler(playlistUsecase),
		Dashboard:    httpHandler.NewDashboardHandler(dashboardUsecase),
		Health:       httpHandler.NewHealthHandler(healthUsecase),
	}, userRepository, server.RouterConfig{
		AllowedOrigins: app.AllowedOrigins,
		TokenSecret:    app.AccessTokenSecret,
	})

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			} else {
				logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
		} else {
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.GetLogger().WithField("error", err).Warn("MongoDB disconnect failed")
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
