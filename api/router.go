package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/tarzi/api/handler"
	"github.com/use-agent/tarzi/api/middleware"
	"github.com/use-agent/tarzi/config"
	"github.com/use-agent/tarzi/convert"
	"github.com/use-agent/tarzi/dispatcher"
	"github.com/use-agent/tarzi/fetch"
)

// NewRouter wires the gin engine: global recovery/logging, an
// unauthenticated health check, and an auth+rate-limited v1 group exposing
// search, fetch, search-and-fetch, and convert.
func NewRouter(cfg *config.Config, d *dispatcher.Dispatcher, f *fetch.Fetcher, conv *convert.Converter, startTime time.Time) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), gin.Logger())

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(startTime))

	protected := v1.Group("")
	protected.Use(middleware.Auth(cfg.Server.APIKeys))
	protected.Use(middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))

	protected.POST("/search", handler.Search(d, cfg.Search.Mode, cfg.Search.Limit))
	protected.POST("/search-and-fetch", handler.SearchAndFetch(d, cfg.Search.Mode, cfg.Search.Limit, cfg.Fetcher.Mode, cfg.Fetcher.Format))
	protected.POST("/fetch", handler.Fetch(f, cfg.Fetcher.Mode, cfg.Fetcher.Format))
	protected.POST("/convert", handler.Convert(conv, cfg.Fetcher.Format))

	return r
}
