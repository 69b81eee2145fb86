package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mediashelf/media-api/app/image"
	"mediashelf/media-api/app/video"
	"mediashelf/media-api/cloudinary"
	"mediashelf/media-api/config"
	"mediashelf/media-api/db"
	"mediashelf/media-api/internal"
	"mediashelf/media-api/internal/service"
	"mediashelf/media-api/pkg/middleware"
	"mediashelf/media-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Multipart fields next to the file are tiny, this is only headroom for them
const formOverhead = 1 << 20

// RouterOpts carries everything Register needs besides the handler deps
type RouterOpts struct {
	Policy      *middleware.AccessPolicy
	Resolver    security.Resolver
	CORSOrigins []string
	RateLimit   int
}

// NewRouter builds the dependencies from the loaded config and returns the
// ready engine. Background work started by the middleware ends with ctx.
func NewRouter(ctx context.Context) (*gin.Engine, error) {
	d := &internal.Deps{
		MaxUploadSize: config.MaxUploadSize(),
		VideoFolder:   viper.GetString("cloudinary.video_folder"),
		ImageFolder:   viper.GetString("cloudinary.image_folder"),
	}

	gdb, err := db.New(viper.GetString("db.driver"), viper.GetString("db.url"))
	if err != nil {
		return nil, err
	}
	d.Videos = db.NewVideoStore(gdb)

	cld, err := cloudinary.New(cloudinary.Credentials{
		CloudName: viper.GetString("cloudinary.cloud_name"),
		APIKey:    viper.GetString("cloudinary.api_key"),
		APISecret: viper.GetString("cloudinary.api_secret"),
	})
	switch {
	case errors.Is(err, service.ErrNotConfigured):
		zap.L().Warn("Media processor disabled, credentials missing")
	case err != nil:
		return nil, fmt.Errorf("failed to initialize media processor, %w", err)
	default:
		d.Processor = cld
	}

	router := gin.New()
	Register(ctx, router, d, RouterOpts{
		Policy: middleware.NewAccessPolicy(
			viper.GetStringSlice("gate.public_pages"),
			viper.GetStringSlice("gate.public_api"),
			"/home",
			"/sign-in",
		),
		Resolver:    security.NewSessionVerifier(viper.GetString("auth.session_secret"), viper.GetString("auth.cookie_name")),
		CORSOrigins: viper.GetStringSlice("host.cors"),
		RateLimit:   viper.GetInt("security.rate_limit"),
	})

	return router, nil
}

// Register wires middleware and routes onto router
func Register(ctx context.Context, router *gin.Engine, d *internal.Deps, o RouterOpts) {
	store := persist.NewMemoryStore(time.Minute)

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     o.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == http.MethodOptions
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
		middleware.NewAccessGateMiddleware(o.Policy, o.Resolver),
	)

	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 8 << 20

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Not found",
			"requestID": c.GetString("requestID"),
		})
	})

	rateLimiter := middleware.RateLimiterMiddleware(ctx, middleware.RateLimiterConfig{
		RequestsPerSecond: o.RateLimit,
		Burst:             o.RateLimit * 2,
	})
	uploadLimit := middleware.BodySizeLimiter(d.MaxUploadSize + formOverhead)

	m := router.Group("/api", rateLimiter)
	{
		// GET /api/video		-> Lists every video, newest first (public)
		m.GET("/video", func(c *gin.Context) { video.VideoList(c, d) })

		// GET /api/video/search	-> Searches videos by title
		m.GET("/video/search", cacheFor(store, 15), func(c *gin.Context) { video.VideoSearch(c, d) })

		// POST /api/video-upload	-> Sends a video to the media processor and saves its record
		m.POST("/video-upload", uploadLimit, func(c *gin.Context) { video.VideoUpload(c, d) })

		// POST /api/image-upload	-> Sends an image to the media processor
		m.POST("/image-upload", uploadLimit, func(c *gin.Context) { image.ImageUpload(c, d) })
	}
}

func cacheFor(store persist.CacheStore, sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
