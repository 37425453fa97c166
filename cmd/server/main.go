package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/ledgerdash/internal/adapter/http"
	"github.com/iho/ledgerdash/internal/adapter/http/handler"
	postgresRepo "github.com/iho/ledgerdash/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/ledgerdash/internal/adapter/repository/redis"
	"github.com/iho/ledgerdash/internal/infrastructure/config"
	"github.com/iho/ledgerdash/internal/infrastructure/logger"
	"github.com/iho/ledgerdash/internal/infrastructure/metrics"
	"github.com/iho/ledgerdash/internal/infrastructure/postgres"
	"github.com/iho/ledgerdash/internal/infrastructure/redis"
	"github.com/iho/ledgerdash/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		URL:            cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to run migrations")
	}

	m := metrics.New()

	// Connect to Redis. Unreachable Redis is not fatal: the cache starts in
	// memory-only mode and serves the dashboard from the fallback.
	cacheCfg := redisRepo.Config{
		Clock:       redisRepo.SystemClock(),
		Logger:      appLogger,
		Metrics:     m,
		MaxAttempts: cfg.RedisMaxReconnect,
		OpTimeout:   cfg.RedisOpTimeout,
	}
	if cfg.CacheEnabled {
		redisClient, redisErr := redis.NewClient(ctx, cfg.RedisURL)
		if redisErr != nil {
			appLogger.Warn().Err(redisErr).Msg("redis unavailable, running with in-memory cache only")
		} else {
			defer redisClient.Close()
			appLogger.Info().Msg("connected to redis")
			cacheCfg.Client = redisClient
		}
	} else {
		appLogger.Info().Msg("remote cache disabled by configuration")
	}
	cache := redisRepo.New(cacheCfg)
	defer cache.Close()

	// Initialize repositories and use cases
	entryStore := postgresRepo.NewEntryRepository(pool, m)
	idGen := postgresRepo.NewULIDGenerator()
	dashboardUC := usecase.NewDashboardUseCase(entryStore, cache, redisRepo.SystemClock(), idGen, appLogger, m)

	// Initialize handlers
	dashboardHandler := handler.NewDashboardHandler(dashboardUC)
	healthHandler := handler.NewHealthHandler(pool, cache)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		DashboardHandler: dashboardHandler,
		HealthHandler:    healthHandler,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}
