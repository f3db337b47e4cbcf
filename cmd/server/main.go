package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/Ruby405/double-entry/internal/adapter/http"
	"github.com/Ruby405/double-entry/internal/adapter/http/handler"
	"github.com/Ruby405/double-entry/internal/adapter/http/middleware"
	postgresRepo "github.com/Ruby405/double-entry/internal/adapter/repository/postgres"
	redisRepo "github.com/Ruby405/double-entry/internal/adapter/repository/redis"
	"github.com/Ruby405/double-entry/internal/infrastructure/config"
	"github.com/Ruby405/double-entry/internal/infrastructure/logger"
	"github.com/Ruby405/double-entry/internal/infrastructure/logging"
	"github.com/Ruby405/double-entry/internal/infrastructure/metrics"
	"github.com/Ruby405/double-entry/internal/infrastructure/postgres"
	"github.com/Ruby405/double-entry/internal/infrastructure/redis"
	"github.com/Ruby405/double-entry/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	// Load the chart of accounts and transfer definitions
	accounts, registry, err := config.LoadChart(cfg.ChartPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.ChartPath).Msg("failed to load chart")
	}
	log.Info().Int("transfer_definitions", registry.Len()).Msg("chart loaded")

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories and engine plumbing
	m := metrics.New()
	txManager := postgresRepo.NewTxManager(pool)
	classifier := postgresRepo.NewClassifier()
	balanceRepo := postgresRepo.NewBalanceRepository(pool)
	lineRepo := postgresRepo.NewLineRepository(pool)
	metadataRepo := postgresRepo.NewLineMetadataRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	runner := usecase.NewRunner(txManager, classifier, m, slogger.Logger)

	// Initialize use cases
	ledger := usecase.NewLedger(runner, registry, balanceRepo, lineRepo, metadataRepo, idGen, cache, slogger.Logger)
	balanceUC := usecase.NewBalanceUseCase(balanceRepo, cache, cfg.BalanceCacheTTL, slogger.Logger)
	lineUC := usecase.NewLineUseCase(lineRepo, metadataRepo)

	// Initialize handlers
	transferHandler := handler.NewTransferHandler(ledger, accounts, m)
	balanceHandler := handler.NewBalanceHandler(balanceUC, accounts)
	lineHandler := handler.NewLineHandler(lineUC, accounts)
	ledgerHandler := handler.NewLedgerHandler(ledger)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransferHandler:  transferHandler,
		BalanceHandler:   balanceHandler,
		LineHandler:      lineHandler,
		LedgerHandler:    ledgerHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
	})

	loggingMiddleware := middleware.NewLoggingMiddleware(log.Logger)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      loggingMiddleware.Wrap(router),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
