package main

import (
	"context"
	"net/http"
	_ "net/http/pprof"
	"time"

	_ "onchain-re-lending/docs"
	"onchain-re-lending/internal/middleware"
	"onchain-re-lending/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// setupRoutes configures all routes
func (a *App) setupRoutes() {
	a.setupStaticRoutes()
	a.setupHealthCheck()
	a.setupAPIRoutes()
}

// setupStaticRoutes configures documentation, profiling and metrics endpoints
func (a *App) setupStaticRoutes() {
	// Serve Swagger UI
	a.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Expose pprof profiling endpoints (disable in production)
	if a.Config.Server.Env != "production" {
		a.Router.GET("/debug/pprof/*any", gin.WrapH(http.DefaultServeMux))
	}

	// Expose Prometheus metrics endpoint
	a.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// setupHealthCheck configures health check endpoint
func (a *App) setupHealthCheck() {
	a.Router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := a.DB.Ping(ctx); err != nil {
			logger.GlobalLogger.Errorf("MongoDB ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "MongoDB unavailable"})
			return
		}

		if _, err := a.Redis.Ping(ctx).Result(); err != nil {
			logger.GlobalLogger.Errorf("Redis ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Redis unavailable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// setupAPIRoutes configures API routes
func (a *App) setupAPIRoutes() {
	api := a.Router.Group("/api")
	{
		// Public routes
		api.GET("/property-valuation", a.ValuationHandler.GetPropertyValuation)
		api.POST("/sessions", a.SessionHandler.CreateSession)
		api.POST("/kyc/self-verify", a.KYCHandler.SelfVerify)
		api.GET("/assets/:assetId", a.AssetHandler.GetAsset)

		// Session routes
		sessionAuth := middleware.SessionAuth(a.Config.JWT.Secret)
		api.POST("/kyc/traditional-upload", sessionAuth, a.KYCHandler.TraditionalUpload)

		current := api.Group("/sessions/current")
		current.Use(sessionAuth)
		{
			current.GET("", a.SessionHandler.GetCurrentSession)
			current.DELETE("", a.SessionHandler.EndSession)
			current.POST("/kyc/skip", a.SessionHandler.SkipKYC)
			current.POST("/valuation", a.SessionHandler.ValuateAsset)
			current.POST("/assets/image", a.SessionHandler.UploadAssetImage)
			current.POST("/mint", a.SessionHandler.MintAsset)
			current.GET("/loan/quote", a.SessionHandler.QuoteLoan)
			current.POST("/loan", a.SessionHandler.ConfigureLoan)
		}

		// Operator routes
		admin := api.Group("/admin")
		admin.Use(middleware.AdminKey(a.Config.Admin.APIKey))
		{
			admin.POST("/kyc/:kycId/review", a.KYCHandler.ReviewSubmission)
		}
	}
}
