package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/everpayapp/everpay-frontend/internal/api"
	"github.com/everpayapp/everpay-frontend/internal/backend"
	"github.com/everpayapp/everpay-frontend/internal/config"
	"github.com/everpayapp/everpay-frontend/internal/handlers"
	"github.com/everpayapp/everpay-frontend/internal/logging"
	"github.com/everpayapp/everpay-frontend/internal/middleware"
	"github.com/everpayapp/everpay-frontend/internal/proxy"
	"github.com/everpayapp/everpay-frontend/internal/services"
	"github.com/everpayapp/everpay-frontend/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const serverVersion = "1.0.0"

func main() {
	// CLI flags
	configPath := pflag.StringP("config", "c", "config.yaml", "Path to config file")
	version := pflag.BoolP("version", "v", false, "Print version and exit")
	port := pflag.IntP("port", "p", 8080, "HTTP server listen port")
	logLevel := pflag.StringP("log-level", "l", "info", "Log level (debug, info, warn, error)")
	sessionSecret := pflag.String("session-secret", "", "Override session signing secret from config")
	backendOrigin := pflag.String("backend-origin", "", "Override backend origin from config")

	pflag.Parse()

	if *version {
		fmt.Println("everpayd version " + serverVersion)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.LoadWithPath(*configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Override config with CLI flags if set
	if pflag.Lookup("port").Changed {
		cfg.Server.Port = *port
	}
	if pflag.Lookup("log-level").Changed {
		cfg.Logging.Level = *logLevel
	}
	if pflag.Lookup("session-secret").Changed && *sessionSecret != "" {
		cfg.Auth.SessionSecret = *sessionSecret
	}
	if pflag.Lookup("backend-origin").Changed && *backendOrigin != "" {
		cfg.Backend.Origin = *backendOrigin
	}

	// Initialize logger
	logger, err := logging.Init(logging.Config(cfg.Logging))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.Int("port", cfg.Server.Port),
		zap.String("backend_origin", cfg.Backend.Origin),
	)

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Outbound HTTP client shared by the login bridge and the forwarder.
	httpClient := &http.Client{Timeout: cfg.Backend.Timeout}

	// Initialize services
	backendClient := backend.NewClient(cfg.Backend.Origin, httpClient)
	forwarder := proxy.NewForwarder(cfg.Backend.Origin, httpClient)
	bridge := session.NewBridge(backendClient)
	tokenService := session.NewTokenService(cfg.Auth.SessionSecret, cfg.Auth.TokenTTL)
	revocations := session.NewRevocationStore(redisClient)
	signatureService := services.NewSignatureService(cfg.Webhook.StripeSecret, cfg.Webhook.Tolerance)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(bridge, tokenService, revocations, handlers.CookieConfig{
		Name:   cfg.Auth.CookieName,
		Domain: cfg.Auth.CookieDomain,
		Secure: cfg.Auth.CookieSecure,
	})
	proxyHandler := handlers.NewProxyHandler(forwarder)
	webhookHandler := handlers.NewWebhookHandler(signatureService, forwarder)
	statusHandler := handlers.NewStatusHandler(serverVersion, cfg.Auth.TokenTTL, cfg.Auth.CookieName, cfg.Backend.Origin)

	// Initialize middleware
	rateLimiter := middleware.NewRateLimiter(redisClient,
		middleware.WithBucketSize(cfg.RateLimit.BucketSize),
		middleware.WithRefillRate(cfg.RateLimit.RefillRate),
		middleware.WithWindow(cfg.RateLimit.WindowSeconds),
	)

	// Initialize router
	router := gin.Default()

	// Register request ID middleware
	router.Use(middleware.RequestID(logger))

	// Setup routes with middleware
	api.SetupRoutes(router, authHandler, proxyHandler, webhookHandler, statusHandler,
		tokenService, revocations, rateLimiter, cfg.Auth.CookieName)

	// Start HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Fatal("Server forced to shutdown", zap.Error(err))
		}
	}()

	logger.Info("Starting server", zap.Int("port", cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Server error", zap.Error(err))
	}
}
