package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/forkful/backend/config"
	"github.com/forkful/backend/internal/cache"
	"github.com/forkful/backend/internal/catalog"
	"github.com/forkful/backend/internal/database"
	"github.com/forkful/backend/internal/generate"
	"github.com/forkful/backend/internal/logging"
	"github.com/forkful/backend/internal/middleware"
	"github.com/forkful/backend/internal/pool"
	"github.com/forkful/backend/internal/resolver"
	"github.com/forkful/backend/internal/router"
	"github.com/forkful/backend/internal/seed"
	"github.com/forkful/backend/internal/server"
	"github.com/forkful/backend/internal/store"
)

func main() {
	// A missing .env is fine in production; the environment is already set.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db.Gorm); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		// The service degrades without Redis: no search cache, no
		// rate limiting. It does not refuse to start.
		logger.Warn("redis unavailable, caching and rate limits disabled", zap.Error(err))
		redisClient = nil
	}

	recipeStore := store.New(db.Gorm)
	poolManager := pool.New(recipeStore, logger)

	catalogClient := catalog.New(cfg.CatalogAPIURL, cfg.CatalogAPIKey, cache.New(redisClient), logger)
	seedClient := seed.New(cfg.SeedAPIURL)
	completer := generate.NewCompletionClient(cfg.CompletionAPIURL, cfg.CompletionAPIKey, cfg.CompletionModel)
	generator := generate.New(completer, logger)

	res := resolver.New(recipeStore, poolManager, catalogClient, seedClient, generator, logger)

	opts := router.Options{
		Resolver:       res,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	}
	if redisClient != nil {
		opts.SearchLimiter = middleware.NewSearchRateLimiter(redisClient, logger)
		opts.GenLimiter = middleware.NewGenerationRateLimiter(redisClient, logger)
	}

	srv := server.New(cfg, opts)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
