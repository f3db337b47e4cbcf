package handler

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthHandler handles liveness and readiness probes.
type HealthHandler struct {
	pool        *pgxpool.Pool
	redisClient *redis.Client
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(pool *pgxpool.Pool, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{pool: pool, redisClient: redisClient}
}

// Liveness reports that the process is up.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness reports whether the backing stores are reachable.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "postgres unavailable", err.Error())
		return
	}

	if h.redisClient != nil {
		if err := h.redisClient.Ping(r.Context()).Err(); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unavailable", err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
