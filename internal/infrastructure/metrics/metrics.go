package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Dashboard query metrics
	QueriesTotal  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	QueryErrors   *prometheus.CounterVec

	// Cache metrics
	CacheHits       *prometheus.CounterVec
	CacheMisses     prometheus.Counter
	CacheOperations *prometheus.CounterVec
	CacheErrors     *prometheus.CounterVec
	CacheDegraded   prometheus.Gauge
	CacheMemorySize prometheus.Gauge

	// Database metrics
	DBQueries  *prometheus.CounterVec
	DBDuration *prometheus.HistogramVec
	DBErrors   *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		QueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerdash_queries_total",
				Help: "Total dashboard queries by name",
			},
			[]string{"query"},
		),
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerdash_query_duration_seconds",
				Help:    "Dashboard query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"query"},
		),
		QueryErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerdash_query_errors_total",
				Help: "Total dashboard query errors by name",
			},
			[]string{"query"},
		),

		CacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerdash_cache_hits_total",
				Help: "Total cache hits by backend",
			},
			[]string{"backend"},
		),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgerdash_cache_misses_total",
			Help: "Total cache misses",
		}),
		CacheOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerdash_cache_operations_total",
				Help: "Total cache operations by type",
			},
			[]string{"operation"},
		),
		CacheErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerdash_cache_errors_total",
				Help: "Total absorbed remote-cache errors by operation",
			},
			[]string{"operation"},
		),
		CacheDegraded: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ledgerdash_cache_degraded",
			Help: "1 when the cache is serving from the in-process map only",
		}),
		CacheMemorySize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ledgerdash_cache_memory_entries",
			Help: "Current number of entries in the in-process cache map",
		}),

		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerdash_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerdash_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerdash_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerdash_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerdash_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}
