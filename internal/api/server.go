package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storelens/matcher/internal/telemetry"
)

// Default timeout values.
const (
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 60 * time.Second
	defaultIdleTimeout  = 120 * time.Second
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// NewServer builds the HTTP server with all routes registered.
func NewServer(handler *Handler, cfg ServerConfig, tp *telemetry.Provider) *http.Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	readTimeout := cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = defaultReadTimeout
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = defaultWriteTimeout
	}

	router := gin.New()
	router.Use(gin.Recovery())
	SetupRoutes(router, handler, tp)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}
}

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler, tp *telemetry.Provider) {
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	if tp != nil {
		router.GET("/metrics", gin.WrapH(tp.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/validate", handler.Validate) // POST /api/v1/validate

		match := v1.Group("/match")
		{
			match.POST("", handler.Match)           // POST /api/v1/match
			match.POST("/batch", handler.MatchBatch) // POST /api/v1/match/batch
		}

		v1.POST("/videos/sweep", handler.SweepVideos) // POST /api/v1/videos/sweep

		cat := v1.Group("/catalog")
		{
			cat.POST("/reload", handler.ReloadCatalog) // POST /api/v1/catalog/reload
			cat.GET("/stats", handler.CatalogStats)    // GET /api/v1/catalog/stats
		}
	}
}
