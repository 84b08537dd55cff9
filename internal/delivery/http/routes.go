package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartbuy360/backend/config"
	"github.com/smartbuy360/backend/internal/infrastructure/metrics"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, reg *metrics.Registry, lg *zap.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.Catalog.MaxImageBytes

	// Global middleware; request id first so every later line carries it.
	// Recovery sits inside metrics and access logging so a recovered 500 is
	// still counted and logged.
	router.Use(RequestIDMiddleware())
	router.Use(MetricsMiddleware(reg))
	router.Use(LoggerMiddleware(lg.Named("access")))
	router.Use(RecoveryMiddleware(lg))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(reg.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	{
		products := v1.Group("/products")
		{
			products.GET("/search", handler.SearchProducts)
			products.POST("/search/image", handler.SearchByImage)
			products.GET("/:id", handler.GetProduct)
			products.GET("/:id/compare", handler.CompareProduct)
			products.GET("/:id/price-history", handler.GetPriceHistory)
			products.GET("/:id/reviews", handler.GetReviews)
			products.POST("/:id/reviews", handler.SubmitReview)
		}
	}

	return router
}
