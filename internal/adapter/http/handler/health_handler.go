package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CacheStatus reports whether the cache is running on its fallback.
type CacheStatus interface {
	Degraded() bool
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	pool  *pgxpool.Pool
	cache CacheStatus
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(pool *pgxpool.Pool, cache CacheStatus) *HealthHandler {
	return &HealthHandler{
		pool:  pool,
		cache: cache,
	}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if the service can answer queries. A degraded cache
// is reported but does not fail readiness; the dashboard still works on the
// in-process fallback.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.pool.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "postgres unhealthy", err.Error())
		return
	}

	cacheState := "ok"
	if h.cache != nil && h.cache.Degraded() {
		cacheState = "degraded"
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"postgres": "ok",
		"cache":    cacheState,
	})
}
