package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/sentimentiq/backend/internal/api/handlers"
	"github.com/sentimentiq/backend/internal/cache/redis"
	"github.com/sentimentiq/backend/internal/dashboard"
	"github.com/sentimentiq/backend/internal/ingestion"
	"github.com/sentimentiq/backend/internal/llm"
	"github.com/sentimentiq/backend/internal/metrics"
	"github.com/sentimentiq/backend/internal/middleware/ratelimit"
	"github.com/sentimentiq/backend/internal/middleware/security"
	"github.com/sentimentiq/backend/internal/middleware/validation"
	"github.com/sentimentiq/backend/internal/sentiment"
	"github.com/sentimentiq/backend/pkg/config"
	appLogger "github.com/sentimentiq/backend/pkg/logger"
	"github.com/sentimentiq/backend/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting SentimentIQ API Server",
		zap.String("environment", cfg.Server.Environment),
		zap.String("classifier", cfg.Classifier.Backend),
	)

	metrics.Init()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Warn("Redis unavailable, continuing without prediction cache", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	if redisClient != nil && cfg.Classifier.Backend != config.BackendLocal {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if _, err := redisClient.SyncPredictionFingerprint(ctx, classifierFingerprint(cfg)); err != nil {
			appLogger.Warn("Failed to sync prediction cache", zap.Error(err))
		}
		cancel()
	}

	lexicon := sentiment.DefaultLexicon()
	local := sentiment.NewKeywordClassifier(lexicon)
	classifier := buildClassifier(cfg, local, redisClient)

	processor := ingestion.NewProcessor(classifier, lexicon)

	store := dashboard.NewStore()
	if cfg.Dashboard.SeedDemo {
		store.Replace(dashboard.DemoSnapshot())
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	rateLimiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	})
	defer rateLimiter.Stop()

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.Server.AllowedOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, " + ratelimit.ClientHeader,
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		IsDevelopment:  cfg.IsDevelopment(),
	}))

	app.Get("/metrics", metrics.MetricsHandler())

	var counter handlers.UploadCounter
	var backing handlers.Backing
	if redisClient != nil {
		counter = redisClient
		backing = redisClient
	}

	uploadHandler := handlers.NewUploadHandler(processor, store, counter)
	predictHandler := handlers.NewPredictHandler(classifier)
	dashboardHandler := handlers.NewDashboardHandler(store, cfg.Dashboard.PerPage)
	wsHandler := handlers.NewWebSocketHandler(store, classifier)
	healthHandler := handlers.NewHealthHandler(store, classifier.Name(), backing)

	api := app.Group("/api/v1")
	api.Use(rateLimiter.Middleware())
	api.Use(validation.Middleware(validation.Config{
		MaxUploadBytes: cfg.Dashboard.MaxUploadBytes,
		Logger:         appLogger.GetLogger(),
	}))

	api.Post("/upload", uploadHandler.Upload)
	api.Post("/bulk_predict", uploadHandler.BulkPredict)
	api.Post("/predict", predictHandler.Predict)
	api.Get("/dashboard_data", dashboardHandler.GetDashboardData)
	api.Get("/reviews", dashboardHandler.GetReviews)

	api.Get("/health", healthHandler.Health)
	api.Get("/ready", healthHandler.Ready)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(wsHandler.HandleConnection))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("Server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}

// buildClassifier returns the keyword classifier alone, or the configured
// remote backend with the keyword classifier as fallback.
func buildClassifier(cfg *config.Config, local *sentiment.KeywordClassifier, cache *redis.Client) sentiment.Classifier {
	var primary sentiment.Classifier

	switch cfg.Classifier.Backend {
	case config.BackendRemote:
		primary = sentiment.NewRemoteClassifier(cfg.Classifier.Remote.BaseURL, sentiment.RemoteOptions{
			Timeout:     time.Duration(cfg.Classifier.Remote.TimeoutSec) * time.Second,
			MaxAttempts: cfg.Classifier.Remote.MaxAttempts,
		})
	case config.BackendOpenAI:
		primary = llm.NewClient(llm.Options{
			APIKey:      cfg.Classifier.OpenAI.APIKey,
			Model:       cfg.Classifier.OpenAI.Model,
			Temperature: cfg.Classifier.OpenAI.Temperature,
			MaxTokens:   cfg.Classifier.OpenAI.MaxTokens,
			Timeout:     time.Duration(cfg.Classifier.OpenAI.TimeoutSec) * time.Second,
		})
	default:
		return sentiment.NewInstrumented(local)
	}

	if cache != nil {
		primary = sentiment.NewCachedClassifier(primary, cache, time.Duration(cfg.Redis.TTLSec)*time.Second)
	}

	appLogger.Info("Classifier configured",
		zap.String("primary", primary.Name()),
		zap.String("fallback", local.Name()),
	)

	return sentiment.NewInstrumented(sentiment.NewFallbackClassifier(primary, local))
}

// classifierFingerprint identifies the settings that shape cached predictions.
func classifierFingerprint(cfg *config.Config) string {
	c := cfg.Classifier
	return utils.CacheKey(
		c.Backend,
		c.Remote.BaseURL,
		c.OpenAI.Model,
		fmt.Sprintf("%.3f", c.OpenAI.Temperature),
	)
}
