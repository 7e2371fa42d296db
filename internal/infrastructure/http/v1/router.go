// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"parcelhub/internal/infrastructure/http/v1/handlers"
	"parcelhub/internal/infrastructure/http/v1/middleware"
	"parcelhub/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// DB is pinged by the readiness probe
	DB handlers.Pinger

	Distributions handlers.DistributionService
	Reports       handlers.ReportsService

	// History serves the audit trail endpoint; nil disables it
	History handlers.HistorySource

	// Debug switches gin to debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.DB)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	v1 := router.Group("/api/v1")
	{
		base := handlers.NewBaseHandler()
		registerDistributionRoutes(v1, base, cfg)
		registerReportRoutes(v1, base, cfg)
	}

	return router
}

func registerDistributionRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewDistributionHandler(base, cfg.Distributions, cfg.History)

	distributions := rg.Group("/distributions")
	distributions.POST("/preview", h.Preview)
	distributions.POST("", h.Confirm)
	distributions.GET("/:id", h.Get)
	if cfg.History != nil {
		distributions.GET("/:id/history", h.History)
	}
}

func registerReportRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewReportsHandler(base, cfg.Reports)

	reports := rg.Group("/reports")
	reports.GET("/distributions.csv", h.DistributionRegister)
	reports.GET("/customer-balances.csv", h.CustomerBalances)
}
