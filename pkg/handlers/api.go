package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"videotube/cmd/config"
	"videotube/pkg/media"
	"videotube/pkg/respond"
	"videotube/pkg/store"
)

// API holds every dependency the handlers need. Nothing is read from
// package globals; the struct is built once in main and shared.
type API struct {
	cfg   *config.Config
	store *store.Store
	media *media.Uploader
	log   *logrus.Logger
}

func New(cfg *config.Config, st *store.Store, up *media.Uploader, log *logrus.Logger) *API {
	return &API{cfg: cfg, store: st, media: up, log: log}
}

// Router builds the gin engine with CORS, the auth middleware and all
// routes under /api/v1.
func Router(api *API) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if api.cfg.CORSOrigin == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{api.cfg.CORSOrigin}
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	wrap := func(fn respond.HandlerFunc) gin.HandlerFunc {
		return respond.Wrap(api.log, fn)
	}
	authed := api.RequireAuth()

	v1 := r.Group("/api/v1")

	users := v1.Group("/users")
	users.POST("/register", wrap(api.Register))
	users.POST("/login", wrap(api.Login))
	users.GET("/me", authed, wrap(api.Me))

	videos := v1.Group("/videos", authed)
	videos.GET("", wrap(api.GetAllVideos))
	videos.POST("", wrap(api.PublishVideo))
	videos.GET("/:videoId", wrap(api.GetVideoByID))
	videos.PATCH("/:videoId", wrap(api.UpdateVideo))
	videos.DELETE("/:videoId", wrap(api.DeleteVideo))
	videos.PATCH("/:videoId/toggle-publish", wrap(api.TogglePublishStatus))

	playlist := v1.Group("/playlist", authed)
	playlist.POST("", wrap(api.CreatePlaylist))
	playlist.GET("/:playlistId", wrap(api.GetPlaylistByID))
	playlist.PATCH("/:playlistId", wrap(api.UpdatePlaylist))
	playlist.DELETE("/:playlistId", wrap(api.DeletePlaylist))
	playlist.POST("/:playlistId/videos/:videoId", wrap(api.AddVideoToPlaylist))
	playlist.DELETE("/:playlistId/videos/:videoId", wrap(api.RemoveVideoFromPlaylist))

	subs := v1.Group("/subscriptions", authed)
	subs.POST("/:channelId", wrap(api.ToggleSubscription))

	// Public channel-page reads, all keyed by the channel owner's id.
	channels := v1.Group("/channels", authed)
	channels.GET("/:userId/playlists", wrap(api.GetUserPlaylists))
	channels.GET("/:userId/tweets", wrap(api.GetUserTweets))
	channels.GET("/:userId/subscribers", wrap(api.GetChannelSubscribers))
	channels.GET("/:userId/subscriptions", wrap(api.GetSubscribedChannels))

	tweets := v1.Group("/tweets", authed)
	tweets.POST("", wrap(api.CreateTweet))
	tweets.PATCH("/:tweetId", wrap(api.UpdateTweet))
	tweets.DELETE("/:tweetId", wrap(api.DeleteTweet))

	return r
}
