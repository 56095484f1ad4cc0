package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/propfi-txbuilder/internal/api/middleware"
	"github.com/feral-file/propfi-txbuilder/internal/metrics"
	"github.com/feral-file/propfi-txbuilder/internal/ratelimit"
)

// SetupRoutes configures all REST API routes. A nil limiter leaves the build endpoints unthrottled.
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig, limiter ratelimit.Limiter) {
	// Health check and metrics endpoints (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Transaction building endpoints (open, the wallet signs the result)
		build := v1.Group("", middleware.RateLimit(limiter))
		build.POST("/properties/fractionalize", handler.Fractionalize)
		build.POST("/listings", handler.ListForSale)
		build.POST("/listings/buy", handler.Buy)
		build.POST("/listings/cancel", handler.CancelListing)
		build.POST("/syndicates", handler.CreateSyndicate)
		build.POST("/syndicates/deposit", handler.DepositToSyndicate)
		build.POST("/treasuries", handler.CreateYieldTreasury)
		build.POST("/treasuries/deposit", handler.DepositYield)
		build.POST("/treasuries/claim", handler.ClaimYield)

		// Journal endpoints (requires authentication)
		v1.GET("/transactions/:id", middleware.Auth(authCfg), handler.GetTransaction)
		v1.GET("/transactions", middleware.Auth(authCfg), handler.ListTransactions)
	}
}
