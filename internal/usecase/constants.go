package usecase

import "time"

const (
	// DefaultCacheTTL applies to most dashboard aggregates.
	DefaultCacheTTL = 300 * time.Second

	// DueCacheTTL is shorter because due-date queries change with the clock.
	DueCacheTTL = 60 * time.Second

	// AlertsCacheTTL keeps alert payloads near-fresh.
	AlertsCacheTTL = 30 * time.Second

	// DefaultTopLimit is the top-N size when a filter gives none.
	DefaultTopLimit = 10

	// DefaultDueWindowDays is the lookahead for due-date queries.
	DefaultDueWindowDays = 30

	// NearDueWindowDays is the lookahead for the near-due alert. Policy
	// constant, not an algorithmic truth.
	NearDueWindowDays = 7

	// HighValueSigmas is the outlier threshold: amounts above
	// mean + HighValueSigmas*stddev raise a high-value alert.
	HighValueSigmas = 3
)
