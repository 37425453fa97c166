package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/dates"
	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/infrastructure/metrics"
	"github.com/iho/ledgerdash/internal/money"
)

// DashboardUseCase orchestrates entry reads, de-duplication, aggregation and
// caching for the dashboard queries. Cache failures are invisible here: a
// broken cache only costs recomputation.
type DashboardUseCase struct {
	store   EntryStore
	cache   Cache
	clock   Clock
	idGen   IDGenerator
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewDashboardUseCase creates a DashboardUseCase.
func NewDashboardUseCase(store EntryStore, cache Cache, clock Clock, idGen IDGenerator, logger zerolog.Logger, m *metrics.Metrics) *DashboardUseCase {
	return &DashboardUseCase{
		store:   store,
		cache:   cache,
		clock:   clock,
		idGen:   idGen,
		logger:  logger,
		metrics: m,
	}
}

// ClearCache drops every cached dashboard aggregate. Exposed to operators;
// the next query of each kind recomputes from the store.
func (uc *DashboardUseCase) ClearCache(ctx context.Context) {
	opID := uc.idGen.Generate()
	uc.cache.Clear(ctx, "")
	uc.logger.Info().Str("operation_id", opID).Msg("dashboard cache cleared")
}

// resolveRange turns filters into concrete bounds: explicit dates win,
// then the named period, else unbounded.
func (uc *DashboardUseCase) resolveRange(f Filters) dates.Range {
	if f.DateStart != "" || f.DateEnd != "" {
		return dates.Range{Start: f.DateStart, End: f.DateEnd}
	}
	if f.Period != "" {
		return dates.ResolvePeriod(f.Period, uc.clock.Now())
	}
	return dates.Range{}
}

func (uc *DashboardUseCase) observe(query string, start time.Time, err error) {
	if err != nil {
		uc.logger.Error().Err(err).Str("query", query).Msg("dashboard query failed")
	}
	if uc.metrics == nil {
		return
	}
	uc.metrics.QueriesTotal.WithLabelValues(query).Inc()
	uc.metrics.QueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
	if err != nil {
		uc.metrics.QueryErrors.WithLabelValues(query).Inc()
	}
}

// entryAmount parses the entry's account amount.
func entryAmount(e domain.Entry) decimal.Decimal {
	return money.Parse(e.RawAmount)
}

// dreAmount parses the entry's DRE split amount. Uninitialized split values
// default to zero instead of failing the aggregate.
func dreAmount(e domain.Entry) decimal.Decimal {
	return money.Parse(e.RawDREAmount)
}

func normalizeAll(entries []domain.Entry) []domain.Entry {
	normalized := make([]domain.Entry, len(entries))
	for i, e := range entries {
		normalized[i] = e.Normalize()
	}
	return normalized
}
