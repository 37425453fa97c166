package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/aggregate"
	"github.com/iho/ledgerdash/internal/dates"
	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/money"
)

// Summary computes the headline aggregate for the period. The status filter
// is deliberately ignored for the overall total so the headline never
// silently excludes cancelled or paid rows; statuses show up only in the
// by-status breakdown.
func (uc *DashboardUseCase) Summary(ctx context.Context, f Filters) (data *SummaryData, err error) {
	start := time.Now()
	defer func() { uc.observe("summary", start, err) }()

	key := uc.cache.Key("summary", f)
	cached := &SummaryData{}
	if uc.cache.Get(ctx, key, cached) {
		return cached, nil
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

	byStatus := make(map[string]StatusGroup)
	for k, g := range aggregate.GroupBy(unique, func(e domain.Entry) string { return string(e.Status) }, entryAmount) {
		byStatus[k] = StatusGroup{Quantity: g.Quantity, Total: g.Total, Mean: g.Mean}
	}

	now := uc.clock.Now()
	overdue := make([]domain.Entry, 0)
	for _, e := range unique {
		if e.Status == domain.StatusPaid {
			continue
		}
		due, ok := dates.Parse(e.DueDate)
		if ok && dates.IsOverdue(due, now) {
			overdue = append(overdue, e)
		}
	}
	overdueStats := aggregate.CalculateStats(overdue, entryAmount)

	data = &SummaryData{
		Period:       rng,
		TotalOverall: aggregate.CalculateStats(unique, entryAmount),
		ByStatus:     byStatus,
		Overdue:      OverdueSummary{Quantity: overdueStats.Quantity, Total: overdueStats.Total},
	}

	uc.cache.Set(ctx, key, data, DefaultCacheTTL)
	return data, nil
}

// KPIs composes the summary and the due report into headline indicators.
func (uc *DashboardUseCase) KPIs(ctx context.Context, f Filters) (data *KPIData, err error) {
	start := time.Now()
	defer func() { uc.observe("kpis", start, err) }()

	key := uc.cache.Key("kpis", f)
	cached := &KPIData{}
	if uc.cache.Get(ctx, key, cached) {
		return cached, nil
	}

	summary, err := uc.Summary(ctx, f)
	if err != nil {
		return nil, err
	}

	totalPaid := decimal.Zero
	if g, ok := summary.ByStatus[string(domain.StatusPaid)]; ok {
		totalPaid = g.Total
	}
	totalOpen := decimal.Zero
	if g, ok := summary.ByStatus[string(domain.StatusOpen)]; ok {
		totalOpen = g.Total
	}

	kpis := KPIs{
		TotalEntries: summary.TotalOverall.Quantity,
		TotalValue:   summary.TotalOverall.Total,
		MeanValue:    summary.TotalOverall.Mean,
		TotalPaid:    totalPaid,
		TotalOpen:    totalOpen,
		PaymentRate:  money.Percentage(totalPaid, summary.TotalOverall.Total),
	}

	// A broken due report degrades the two overdue KPIs to zero instead of
	// failing the whole panel.
	if due, dueErr := uc.DueEntries(ctx, Filters{Days: DefaultDueWindowDays}); dueErr == nil {
		overdueValue := decimal.Zero
		overdueCount := 0
		for _, e := range due.Entries {
			if e.Overdue {
				overdueCount++
				overdueValue = overdueValue.Add(e.Amount)
			}
		}
		kpis.OverdueEntries = overdueCount
		kpis.OverdueValue = overdueValue
	} else {
		uc.logger.Warn().Err(dueErr).Msg("due report unavailable for KPIs, omitting overdue figures")
		kpis.OverdueValue = decimal.Zero
	}

	data = &KPIData{Period: summary.Period, KPIs: kpis}
	uc.cache.Set(ctx, key, data, DefaultCacheTTL)
	return data, nil
}

// ComparePeriods contrasts two named periods, defaulting to the current
// month against the previous one.
func (uc *DashboardUseCase) ComparePeriods(ctx context.Context, f Filters) (data *ComparePeriodsData, err error) {
	start := time.Now()
	defer func() { uc.observe("compare_periods", start, err) }()

	key := uc.cache.Key("compare-periods", f)
	cached := &ComparePeriodsData{}
	if uc.cache.Get(ctx, key, cached) {
		return cached, nil
	}

	currentName := f.PeriodCurrent
	if currentName == "" {
		currentName = "current_month"
	}
	previousName := f.PeriodPrevious
	if previousName == "" {
		previousName = "previous_month"
	}

	now := uc.clock.Now()
	currentRange := dates.ResolvePeriod(currentName, now)
	previousRange := dates.ResolvePeriod(previousName, now)

	current, err := uc.Summary(ctx, Filters{DateStart: currentRange.Start, DateEnd: currentRange.End})
	if err != nil {
		return nil, err
	}
	previous, err := uc.Summary(ctx, Filters{DateStart: previousRange.Start, DateEnd: previousRange.End})
	if err != nil {
		return nil, err
	}

	diff := current.TotalOverall.Total.Sub(previous.TotalOverall.Total)

	data = &ComparePeriodsData{
		PeriodCurrent:  currentRange,
		PeriodPrevious: previousRange,
		Current:        current.TotalOverall,
		Previous:       previous.TotalOverall,
		Variation:      money.Percentage(diff, previous.TotalOverall.Total),
		VariationValue: diff,
	}

	uc.cache.Set(ctx, key, data, DefaultCacheTTL)
	return data, nil
}

// CompareMonths contrasts the running month (through today) with the whole
// previous month on registration dates.
func (uc *DashboardUseCase) CompareMonths(ctx context.Context, f Filters) (data *CompareMonthsData, err error) {
	start := time.Now()
	defer func() { uc.observe("compare_months", start, err) }()

	key := uc.cache.Key("compare-months", f)
	cached := &CompareMonthsData{}
	if uc.cache.Get(ctx, key, cached) {
		return cached, nil
	}

	now := uc.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	previous := dates.ResolvePeriod("previous_month", now)

	currentEntries, err := uc.store.FindAll(ctx, EntryQuery{
		DateField: DateFieldRegistered,
		DateFrom:  dates.FormatISO(monthStart),
		DateTo:    dates.FormatISO(now),
	})
	if err != nil {
		return nil, err
	}
	previousEntries, err := uc.store.FindAll(ctx, EntryQuery{
		DateField: DateFieldRegistered,
		DateFrom:  previous.Start,
		DateTo:    previous.End,
	})
	if err != nil {
		return nil, err
	}

	currentTotals := monthTotals(currentEntries)
	previousTotals := monthTotals(previousEntries)

	variation := MonthVariation{
		Quantity: money.Percentage(
			decimal.NewFromInt(int64(currentTotals.Quantity-previousTotals.Quantity)),
			decimal.NewFromInt(int64(previousTotals.Quantity)),
		),
		Total: money.Percentage(currentTotals.Total.Sub(previousTotals.Total), previousTotals.Total),
	}

	data = &CompareMonthsData{
		CurrentMonth:  currentTotals,
		PreviousMonth: previousTotals,
		Variation:     variation,
	}

	uc.cache.Set(ctx, key, data, DefaultCacheTTL)
	return data, nil
}

func monthTotals(entries []domain.Entry) MonthTotals {
	unique := normalizeAll(domain.Dedupe(entries))

	totals := MonthTotals{
		Quantity: len(unique),
		Total:    decimal.Zero,
		Paid:     decimal.Zero,
		Open:     decimal.Zero,
		Mean:     decimal.Zero,
	}

	for _, e := range unique {
		v := entryAmount(e)
		totals.Total = totals.Total.Add(v)
		switch e.Status {
		case domain.StatusPaid:
			totals.Paid = totals.Paid.Add(v)
		case domain.StatusOpen:
			totals.Open = totals.Open.Add(v)
		}
	}

	if totals.Quantity > 0 {
		totals.Mean = totals.Total.Div(decimal.NewFromInt(int64(totals.Quantity)))
	}

	return totals
}
