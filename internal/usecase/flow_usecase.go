package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/aggregate"
	"github.com/iho/ledgerdash/internal/dates"
	"github.com/iho/ledgerdash/internal/domain"
)

// CashFlow buckets the period's entries by due date, split per status.
func (uc *DashboardUseCase) CashFlow(ctx context.Context, f Filters) (data *CashFlowData, err error) {
	start := time.Now()
	defer func() { uc.observe("cash_flow", start, err) }()

	key := uc.cache.Key("cash-flow", f)
	cached := &CashFlowData{}
	if uc.cache.Get(ctx, key, cached) {
		return cached, nil
	}

	grouping := f.Grouping
	if grouping == "" {
		grouping = "month"
	}

	rng := uc.resolveRange(f)

	entries, err := uc.store.FindAll(ctx, EntryQuery{
		DateField: DateFieldDue,
		DateFrom:  rng.Start,
		DateTo:    rng.End,
	})
	if err != nil {
		return nil, err
	}

	unique := normalizeAll(domain.Dedupe(entries))
	buckets := make(map[string]*CashFlowBucket)

	for _, e := range unique {
		due, ok := dates.Parse(e.DueDate)
		if !ok {
			continue
		}

		period := aggregate.BucketKey(due, grouping)
		b, exists := buckets[period]
		if !exists {
			b = &CashFlowBucket{
				Period:     period,
				Open:       decimal.Zero,
				Paid:       decimal.Zero,
				InProgress: decimal.Zero,
				Cancelled:  decimal.Zero,
				Total:      decimal.Zero,
			}
			buckets[period] = b
		}

		v := entryAmount(e)
		b.Total = b.Total.Add(v)

		switch e.Status {
		case domain.StatusOpen:
			b.Open = b.Open.Add(v)
		case domain.StatusPaid:
			b.Paid = b.Paid.Add(v)
		case domain.StatusInProgress:
			b.InProgress = b.InProgress.Add(v)
		case domain.StatusCancelled:
			b.Cancelled = b.Cancelled.Add(v)
		}
	}

	flow := make([]CashFlowBucket, 0, len(buckets))
	for _, b := range buckets {
		flow = append(flow, *b)
	}
	sort.Slice(flow, func(i, j int) bool { return flow[i].Period < flow[j].Period })

	data = &CashFlowData{Period: rng, Grouping: grouping, Flow: flow}
	uc.cache.Set(ctx, key, data, DefaultCacheTTL)
	return data, nil
}

// Timeline buckets the period's entries by registration date. Paid entries
// count as revenue, everything else as expense.
func (uc *DashboardUseCase) Timeline(ctx context.Context, f Filters) (data *TimelineData, err error) {
	start := time.Now()
	defer func() { uc.observe("timeline", start, err) }()

	key := uc.cache.Key("timeline", f)
	cached := &TimelineData{}
	if uc.cache.Get(ctx, key, cached) {
		return cached, nil
	}

	grouping := f.Grouping
	if grouping == "" {
		grouping = "day"
	}

	rng := uc.resolveRange(f)

	entries, err := uc.store.FindAll(ctx, EntryQuery{
		DateField: DateFieldRegistered,
		DateFrom:  rng.Start,
		DateTo:    rng.End,
	})
	if err != nil {
		return nil, err
	}

	unique := normalizeAll(domain.Dedupe(entries))
	buckets := make(map[string]*TimelinePoint)

	for _, e := range unique {
		registered, ok := dates.Parse(e.RegisteredDate)
		if !ok {
			continue
		}

		period := aggregate.BucketKey(registered, grouping)
		p, exists := buckets[period]
		if !exists {
			p = &TimelinePoint{
				Period:  period,
				Revenue: decimal.Zero,
				Expense: decimal.Zero,
				Total:   decimal.Zero,
			}
			buckets[period] = p
		}

		v := entryAmount(e)
		p.Total = p.Total.Add(v)
		if e.Status == domain.StatusPaid {
			p.Revenue = p.Revenue.Add(v)
		} else {
			p.Expense = p.Expense.Add(v)
		}
	}

	points := make([]TimelinePoint, 0, len(buckets))
	for _, p := range buckets {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })

	data = &TimelineData{Period: rng, Grouping: grouping, Points: points}
	uc.cache.Set(ctx, key, data, DefaultCacheTTL)
	return data, nil
}
