package main

import (
	"net/http"
	"time"

	"onchain-re-lending/internal/errors"
	"onchain-re-lending/internal/middleware"
	"onchain-re-lending/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// configure all middleware for the router
func (a *App) setupMiddleware() {
	// CORS middleware
	a.Router.Use(setupCORS(a.Config.Server.Env))

	// Other middleware
	a.Router.Use(middleware.MetricsMiddleware())
	a.Router.Use(middleware.LoggingMiddleware())
	a.Router.Use(middleware.SecureHeaders())
	a.Router.Use(middleware.ErrorHandler())
	a.Router.Use(middleware.RateLimitMiddleware(a.RateLimiter))
	a.Router.Use(gin.CustomRecovery(recoverJSON))
}

// recoverJSON answers a panic with the generic 500 body instead of an empty response.
func recoverJSON(c *gin.Context, recovered interface{}) {
	logger.GlobalLogger.Errorf("Panic recovered: path=%s, method=%s, error=%v", c.Request.URL.Path, c.Request.Method, recovered)
	appErr := errors.Internal("panic recovered", nil)
	c.AbortWithStatusJSON(http.StatusInternalServerError, appErr.Body())
}

// configure CORS middleware
func setupCORS(env string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	allowedOrigins := []string{"http://localhost:3000"}

	if env == "production" {
		corsConfig.AllowAllOrigins = false
		corsConfig.AllowOrigins = allowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}

	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With", middleware.AdminKeyHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length"}
	corsConfig.MaxAge = 12 * time.Hour

	return cors.New(corsConfig)
}
