package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/ledgerdash/internal/adapter/http/handler"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	DashboardHandler *handler.DashboardHandler
	HealthHandler    *handler.HealthHandler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1/dashboard", func(r chi.Router) {
		r.Get("/summary", cfg.DashboardHandler.Summary)
		r.Get("/cash-flow", cfg.DashboardHandler.CashFlow)
		r.Get("/dre-department", cfg.DashboardHandler.DREByDepartment)
		r.Get("/top-suppliers", cfg.DashboardHandler.TopSuppliers)
		r.Get("/due-entries", cfg.DashboardHandler.DueEntries)
		r.Get("/kpis", cfg.DashboardHandler.KPIs)
		r.Get("/compare-periods", cfg.DashboardHandler.ComparePeriods)
		r.Get("/compare-months", cfg.DashboardHandler.CompareMonths)
		r.Get("/alerts", cfg.DashboardHandler.Alerts)
		r.Get("/timeline", cfg.DashboardHandler.Timeline)
		r.Get("/categories", cfg.DashboardHandler.CategoryDistribution)
		r.Get("/banks", cfg.DashboardHandler.BankBreakdown)
		r.Get("/top-entries", cfg.DashboardHandler.TopEntries)
		r.Post("/clear-cache", cfg.DashboardHandler.ClearCache)
	})

	return r
}
