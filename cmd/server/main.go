// Package main provides the LINE bot server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/linchiawei/twstore-linebot-go/internal/bot"
	"github.com/linchiawei/twstore-linebot-go/internal/bot/recommend"
	"github.com/linchiawei/twstore-linebot-go/internal/config"
	"github.com/linchiawei/twstore-linebot-go/internal/geocode"
	"github.com/linchiawei/twstore-linebot-go/internal/logger"
	"github.com/linchiawei/twstore-linebot-go/internal/metrics"
	picker "github.com/linchiawei/twstore-linebot-go/internal/recommend"
	"github.com/linchiawei/twstore-linebot-go/internal/region"
	"github.com/linchiawei/twstore-linebot-go/internal/sentry"
	"github.com/linchiawei/twstore-linebot-go/internal/session"
	"github.com/linchiawei/twstore-linebot-go/internal/store"
	"github.com/linchiawei/twstore-linebot-go/internal/webhook"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)
	log.Info("Starting TWStore LineBot Server")

	// Initialize Sentry (no-op when DSN is empty)
	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Debug:       cfg.LogLevel == "debug",
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize Sentry, error tracking disabled")
	} else if sentry.IsEnabled() {
		log.WithField("environment", cfg.Environment).Info("Sentry initialized")
	}
	defer sentry.Flush(2 * time.Second)

	// Ensure the data directory exists before opening the store
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.WithError(err).Fatal("Failed to create data directory")
	}

	// Open the business store
	db, err := store.New(cfg.SQLitePath())
	if err != nil {
		log.WithError(err).Fatal("Failed to open business store")
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", cfg.SQLitePath()).Info("Business store opened")

	// Seed the store from the bundled JSON file on first boot
	if err := db.Seed(context.Background(), cfg.SeedPath(), log); err != nil {
		log.WithError(err).Fatal("Failed to seed business store")
	}

	// Create Prometheus registry
	registry := prometheus.NewRegistry()

	// Register Go and process collectors
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	// Create metrics
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Create the session store: Redis when configured, in-memory otherwise
	sessions := newSessionStore(cfg, log)
	defer func() { _ = sessions.Close() }()

	// Create reverse geocoder client
	if cfg.GoogleMapsAPIKey == "" {
		log.Warn("GOOGLE_MAPS_API_KEY not set, location-based recommendations disabled")
	}
	geocoder := geocode.NewClient(cfg.GoogleMapsAPIKey, cfg.GeocodeTimeout)

	// Region catalog and resolver
	catalog := region.DefaultCatalog()
	resolver := region.NewResolver(catalog, cfg.GeocodeDistrictLevel)

	// Recommendation handler
	recommendHandler := recommend.NewHandler(recommend.HandlerConfig{
		Sessions:       sessions,
		Source:         db,
		Geocoder:       geocoder,
		Selector:       picker.NewSelector(time.Now().UnixNano()),
		Catalog:        catalog,
		Resolver:       resolver,
		Logger:         log,
		Metrics:        m,
		Location:       cfg.Location(),
		RecommendCount: cfg.RecommendCount,
	})

	// Register bot modules
	botRegistry := bot.NewRegistry()
	botRegistry.Register(recommendHandler)

	processor := bot.NewProcessor(bot.ProcessorConfig{
		Registry:       botRegistry,
		Logger:         log,
		Metrics:        m,
		WebhookTimeout: cfg.WebhookTimeout,
	})

	// Create webhook handler
	webhookHandler, err := webhook.NewHandler(webhook.HandlerConfig{
		ChannelSecret: cfg.LineChannelSecret,
		ChannelToken:  cfg.LineChannelToken,
		Metrics:       m,
		Logger:        log,
		Processor:     processor,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create webhook handler")
	}
	log.Info("Webhook handler created")

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(sentryMiddleware())

	// Setup routes
	setupRoutes(router, webhookHandler, db, sessions, registry)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Stop accepting new requests first
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Drain in-flight webhook events
	if err := webhookHandler.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Timeout waiting for webhook events to drain")
	}

	if err := sessions.Close(); err != nil {
		log.WithError(err).Error("Failed to close session store")
	}
	if err := db.Close(); err != nil {
		log.WithError(err).Error("Failed to close business store")
	}

	log.Info("Server stopped")
}

// newSessionStore connects to Redis when an address is configured and
// falls back to the in-memory store otherwise. A Redis connection
// failure degrades to in-memory rather than aborting startup.
func newSessionStore(cfg *config.Config, log *logger.Logger) session.Store {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, using in-memory session store")
		return session.NewMemoryStore(cfg.SessionTTL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisStore, err := session.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
	if err != nil {
		log.WithError(err).Warn("Failed to connect to Redis, falling back to in-memory session store")
		return session.NewMemoryStore(cfg.SessionTTL)
	}

	log.WithField("addr", cfg.RedisAddr).Info("Redis session store connected")
	return redisStore
}
