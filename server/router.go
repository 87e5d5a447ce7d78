package server

import (
	"time"

	"vidtube/domain/repository"
	"vidtube/infrastructure/metrics"
	httpHandler "vidtube/interfaces/http"
	"vidtube/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	User         httpHandler.IUserHandler
	Video        httpHandler.IVideoHandler
	Comment      httpHandler.ICommentHandler
	Like         httpHandler.ILikeHandler
	Subscription httpHandler.ISubscriptionHandler
	Tweet        httpHandler.ITweetHandler
	Playlist     httpHandler.IPlaylistHandler
	Dashboard    httpHandler.IDashboardHandler
	Health       httpHandler.IHealthHandler
}

type RouterConfig struct {
	AllowedOrigins []string
	TokenSecret    string
}

func InitiateRouter(h Handlers, users repository.IUser, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Observe())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", h.Health.Check)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	auth := middleware.Auth(cfg.TokenSecret, users)
	optional := middleware.OptionalAuth(cfg.TokenSecret, users)

	api := router.Group("/api/v1")
	api.Use(middleware.WritesOnly(middleware.RateLimit(middleware.WriteResource)))

	user := api.Group("/users")
	{
		user.POST("/register", h.User.Register)
		user.POST("/login", h.User.Login)
		user.POST("/refresh-token", h.User.RefreshToken)
		user.GET("/c/:username", optional, h.User.ChannelProfile)

		user.POST("/logout", auth, h.User.Logout)
		user.POST("/change-password", auth, h.User.ChangePassword)
		user.GET("/current-user", auth, h.User.CurrentUser)
		user.PATCH("/update-account", auth, h.User.UpdateAccount)
		user.PATCH("/avatar", auth, h.User.UpdateAvatar)
		user.PATCH("/cover-image", auth, h.User.UpdateCoverImage)
		user.GET("/history", auth, h.User.WatchHistory)
	}

	video := api.Group("/videos")
	{
		video.GET("", h.Video.List)
		video.GET("/:videoId", optional, h.Video.Get)
		video.POST("", auth, h.Video.Publish)
		video.PATCH("/:videoId", auth, h.Video.Update)
		video.DELETE("/:videoId", auth, h.Video.Delete)
		video.PATCH("/toggle/publish/:videoId", auth, h.Video.TogglePublish)
	}

	comment := api.Group("/comments")
	{
		comment.GET("/:videoId", optional, h.Comment.List)
		comment.POST("/:videoId", auth, h.Comment.Add)
		comment.PATCH("/c/:commentId", auth, h.Comment.Update)
		comment.DELETE("/c/:commentId", auth, h.Comment.Delete)
	}

	like := api.Group("/likes", auth)
	{
		like.POST("/toggle/v/:videoId", h.Like.ToggleVideoLike)
		like.POST("/toggle/c/:commentId", h.Like.ToggleCommentLike)
		like.POST("/toggle/t/:tweetId", h.Like.ToggleTweetLike)
		like.GET("/videos", h.Like.LikedVideos)
	}

	subscription := api.Group("/subscriptions")
	{
		subscription.POST("/c/:channelId", auth, h.Subscription.Toggle)
		subscription.GET("/c/:channelId", optional, h.Subscription.Subscribers)
		subscription.GET("/u/:subscriberId", h.Subscription.SubscribedChannels)
	}

	tweet := api.Group("/tweets")
	{
		tweet.POST("", auth, h.Tweet.Create)
		tweet.GET("/user/:userId", optional, h.Tweet.ListByUser)
		tweet.PATCH("/:tweetId", auth, h.Tweet.Update)
		tweet.DELETE("/:tweetId", auth, h.Tweet.Delete)
	}

	playlist := api.Group("/playlist")
	{
		playlist.POST("", auth, h.Playlist.Create)
		playlist.GET("/user/:userId", h.Playlist.ListByUser)
		playlist.GET("/:playlistId", h.Playlist.Get)
		playlist.PATCH("/:playlistId", auth, h.Playlist.Update)
		playlist.DELETE("/:playlistId", auth, h.Playlist.Delete)
		playlist.PATCH("/add/:videoId/:playlistId", auth, h.Playlist.AddVideo)
		playlist.PATCH("/remove/:videoId/:playlistId", auth, h.Playlist.RemoveVideo)
	}

	dashboard := api.Group("/dashboard", auth)
	{
		dashboard.GET("/stats", h.Dashboard.Stats)
		dashboard.GET("/videos", h.Dashboard.Videos)
	}

	return router
}
