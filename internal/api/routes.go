package api

import (
	"net/http"

	"github.com/everpayapp/everpay-frontend/internal/handlers"
	"github.com/everpayapp/everpay-frontend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRoutes configures all API routes with their middleware
func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	proxyHandler *handlers.ProxyHandler,
	webhookHandler *handlers.WebhookHandler,
	statusHandler *handlers.StatusHandler,
	validator middleware.TokenValidator,
	revocations middleware.RevocationChecker,
	rateLimiter *middleware.RateLimiter,
	cookieName string,
) {
	logger := logrus.New()

	// Global middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler())

	// Public routes
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/status", statusHandler.Handle)
	router.POST("/webhooks/stripe", webhookHandler.HandleStripe)

	// Login is public but throttled against credential stuffing.
	login := router.Group("/auth")
	login.Use(rateLimiter.RateLimit())
	{
		login.POST("/login", authHandler.Login)
	}

	// Session routes require a valid, unrevoked token.
	auth := router.Group("/auth")
	auth.Use(middleware.SessionAuth(validator, revocations, cookieName))
	{
		auth.GET("/session", authHandler.Session)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	// Catch-all forwarder to the backend, rate limited per client.
	proxied := router.Group("/api")
	proxied.Use(rateLimiter.RateLimit())
	{
		proxied.GET("/*path", proxyHandler.Handle)
		proxied.POST("/*path", proxyHandler.Handle)
	}
}
