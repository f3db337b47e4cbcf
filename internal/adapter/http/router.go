package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ruby405/double-entry/internal/adapter/http/handler"
	"github.com/Ruby405/double-entry/internal/adapter/http/middleware"
	"github.com/Ruby405/double-entry/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TransferHandler  *handler.TransferHandler
	BalanceHandler   *handler.BalanceHandler
	LineHandler      *handler.LineHandler
	LedgerHandler    *handler.LedgerHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Post("/transfers", cfg.TransferHandler.Create)
		r.Get("/balance", cfg.BalanceHandler.Get)
		r.Get("/lines", cfg.LineHandler.ListByAccount)
		r.Get("/lines/{id}", cfg.LineHandler.Get)
		r.Get("/ledger/consistency", cfg.LedgerHandler.Consistency)
	})

	return r
}
