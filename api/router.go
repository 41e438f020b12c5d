package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/bingdict/api/handler"
	"github.com/use-agent/bingdict/api/middleware"
	"github.com/use-agent/bingdict/bing"
	"github.com/use-agent/bingdict/cache"
	"github.com/use-agent/bingdict/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health stays outside auth so monitoring probes always work.
func NewRouter(client *bing.Client, cc *cache.Cache, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(cc, startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.GET("/translate", handler.Translate(client))
	protected.POST("/translate/batch", handler.PostBatch(client))
	protected.GET("/inspect", handler.Inspect(client))

	return r
}
