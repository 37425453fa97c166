package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/aggregate"
	"github.com/iho/ledgerdash/internal/dates"
	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/money"
)

// DueEntries lists unpaid entries whose due date falls inside the lookahead
// window, or only the overdue ones. The short TTL keeps the report honest as
// the clock moves.
func (uc *DashboardUseCase) DueEntries(ctx context.Context, f Filters) (data *DueEntriesData, err error) {
	start := time.Now()
	defer func() { uc.observe("due_entries", start, err) }()

	key := uc.cache.Key("due-entries", f)
	cached := &DueEntriesData{}
	if uc.cache.Get(ctx, key, cached) {
		return cached, nil
	}

	days := f.Days
	if days <= 0 {
		days = DefaultDueWindowDays
	}

	now := uc.clock.Now()
	today := dates.Truncate(now)

	var from, to string
	if f.OnlyOverdue {
		to = dates.FormatISO(today.AddDate(0, 0, -1))
	} else {
		from = dates.FormatISO(today)
		to = dates.FormatISO(today.AddDate(0, 0, days))
	}

	entries, err := uc.store.FindAll(ctx, EntryQuery{
		DateField:      DateFieldDue,
		DateFrom:       from,
		DateTo:         to,
		Statuses:       []domain.Status{domain.StatusOpen, domain.StatusInProgress},
		RequireDueDate: true,
		OrderByDueDate: true,
	})
	if err != nil {
		return nil, err
	}

	unique := normalizeAll(domain.Dedupe(entries))

	rows := make([]DueEntry, 0, len(unique))
	totalValue := decimal.Zero
	for _, e := range unique {
		due, ok := dates.Parse(e.DueDate)
		if !ok {
			continue
		}

		amount := entryAmount(e)
		rows = append(rows, DueEntry{
			AccountNumber: e.AccountNumber,
			Supplier:      supplierOrNotInformed(e.Supplier),
			Amount:        amount,
			DueDate:       dates.FormatISO(due),
			Status:        e.Status,
			DaysUntilDue:  dates.DaysUntil(due, now),
			Overdue:       dates.IsOverdue(due, now),
		})
		totalValue = totalValue.Add(amount)
	}

	data = &DueEntriesData{
		Days:        days,
		OnlyOverdue: f.OnlyOverdue,
		Entries:     rows,
		Total:       len(rows),
		TotalValue:  totalValue,
	}

	uc.cache.Set(ctx, key, data, DueCacheTTL)
	return data, nil
}

// Alerts builds the operator alert feed: overdue entries, entries due within
// the near window, statistical amount outliers of the current month, and
// entries missing a supplier. Alert kinds with no matching entries are
// omitted entirely.
func (uc *DashboardUseCase) Alerts(ctx context.Context, f Filters) (data *AlertsData, err error) {
	start := time.Now()
	defer func() { uc.observe("alerts", start, err) }()

	key := uc.cache.Key("alerts", f)
	cached := &AlertsData{}
	if uc.cache.Get(ctx, key, cached) {
		return cached, nil
	}

	now := uc.clock.Now()
	alerts := make([]Alert, 0, 4)

	overdue, err := uc.overdueAlert(ctx, now)
	if err != nil {
		return nil, err
	}
	if overdue != nil {
		alerts = append(alerts, *overdue)
	}

	nearDue, err := uc.nearDueAlert(ctx, now)
	if err != nil {
		return nil, err
	}
	if nearDue != nil {
		alerts = append(alerts, *nearDue)
	}

	highValue, err := uc.highValueAlert(ctx, now)
	if err != nil {
		return nil, err
	}
	if highValue != nil {
		alerts = append(alerts, *highValue)
	}

	missing, err := uc.missingSupplierAlert(ctx)
	if err != nil {
		return nil, err
	}
	if missing != nil {
		alerts = append(alerts, *missing)
	}

	data = &AlertsData{Alerts: alerts, Total: len(alerts)}
	uc.cache.Set(ctx, key, data, AlertsCacheTTL)
	return data, nil
}

func (uc *DashboardUseCase) overdueAlert(ctx context.Context, now time.Time) (*Alert, error) {
	yesterday := dates.FormatISO(dates.Truncate(now).AddDate(0, 0, -1))

	entries, err := uc.store.FindAll(ctx, EntryQuery{
		DateField:      DateFieldDue,
		DateTo:         yesterday,
		Statuses:       []domain.Status{domain.StatusOpen, domain.StatusInProgress},
		RequireDueDate: true,
		OrderByDueDate: true,
	})
	if err != nil {
		return nil, fmt.Errorf("overdue alert: %w", err)
	}

	unique := normalizeAll(domain.Dedupe(entries))

	var rows []AlertEntry
	total := decimal.Zero
	for _, e := range unique {
		due, ok := dates.Parse(e.DueDate)
		if !ok || !dates.IsOverdue(due, now) {
			continue
		}

		amount := entryAmount(e)
		rows = append(rows, AlertEntry{
			AccountNumber: e.AccountNumber,
			Supplier:      supplierOrNotInformed(e.Supplier),
			Amount:        amount,
			Status:        e.Status,
			DueDate:       dates.FormatISO(due),
			DaysOverdue:   -dates.DaysUntil(due, now),
		})
		total = total.Add(amount)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return &Alert{
		ID:       uc.idGen.Generate(),
		Type:     AlertOverdue,
		Severity: SeverityHigh,
		Title:    "Overdue entries",
		Message:  fmt.Sprintf("%d entries overdue, totaling %s", len(rows), money.Format(total, true)),
		Value:    total,
		Quantity: len(rows),
		Entries:  rows,
	}, nil
}

func (uc *DashboardUseCase) nearDueAlert(ctx context.Context, now time.Time) (*Alert, error) {
	today := dates.Truncate(now)

	entries, err := uc.store.FindAll(ctx, EntryQuery{
		DateField:      DateFieldDue,
		DateFrom:       dates.FormatISO(today),
		DateTo:         dates.FormatISO(today.AddDate(0, 0, NearDueWindowDays)),
		Statuses:       []domain.Status{domain.StatusOpen, domain.StatusInProgress},
		RequireDueDate: true,
		OrderByDueDate: true,
	})
	if err != nil {
		return nil, fmt.Errorf("near-due alert: %w", err)
	}

	unique := normalizeAll(domain.Dedupe(entries))

	var rows []AlertEntry
	total := decimal.Zero
	for _, e := range unique {
		due, ok := dates.Parse(e.DueDate)
		if !ok || dates.IsOverdue(due, now) {
			continue
		}

		amount := entryAmount(e)
		rows = append(rows, AlertEntry{
			AccountNumber: e.AccountNumber,
			Supplier:      supplierOrNotInformed(e.Supplier),
			Amount:        amount,
			Status:        e.Status,
			DueDate:       dates.FormatISO(due),
			DaysUntilDue:  dates.DaysUntil(due, now),
		})
		total = total.Add(amount)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return &Alert{
		ID:       uc.idGen.Generate(),
		Type:     AlertNearDue,
		Severity: SeverityMedium,
		Title:    fmt.Sprintf("Entries due within %d days", NearDueWindowDays),
		Message:  fmt.Sprintf("%d entries due soon, totaling %s", len(rows), money.Format(total, true)),
		Value:    total,
		Quantity: len(rows),
		Entries:  rows,
	}, nil
}

// highValueAlert flags current-month entries whose amount exceeds
// mean + HighValueSigmas standard deviations. The deviation is computed in
// float64; the threshold only gates which entries get reported, so float
// rounding at that scale is harmless.
func (uc *DashboardUseCase) highValueAlert(ctx context.Context, now time.Time) (*Alert, error) {
	rng := dates.ResolvePeriod("current_month", now)

	entries, err := uc.store.FindAll(ctx, EntryQuery{
		DateField: DateFieldRegistered,
		DateFrom:  rng.Start,
		DateTo:    rng.End,
	})
	if err != nil {
		return nil, fmt.Errorf("high-value alert: %w", err)
	}

	unique := normalizeAll(domain.Dedupe(entries))

	type valued struct {
		entry  domain.Entry
		amount decimal.Decimal
	}
	positives := make([]valued, 0, len(unique))
	for _, e := range unique {
		if v := entryAmount(e); v.IsPositive() {
			positives = append(positives, valued{entry: e, amount: v})
		}
	}
	// An outlier needs a population to stand out from.
	if len(positives) < 2 {
		return nil, nil
	}

	var sum float64
	for _, p := range positives {
		f, _ := p.amount.Float64()
		sum += f
	}
	mean := sum / float64(len(positives))

	var variance float64
	for _, p := range positives {
		f, _ := p.amount.Float64()
		variance += (f - mean) * (f - mean)
	}
	variance /= float64(len(positives))

	limit := mean + HighValueSigmas*math.Sqrt(variance)
	limitDec := decimal.NewFromFloat(limit).Round(2)

	var rows []AlertEntry
	total := decimal.Zero
	for _, p := range positives {
		f, _ := p.amount.Float64()
		if f <= limit {
			continue
		}
		rows = append(rows, AlertEntry{
			AccountNumber:  p.entry.AccountNumber,
			Supplier:       supplierOrNotInformed(p.entry.Supplier),
			Amount:         p.amount,
			Status:         p.entry.Status,
			Description:    p.entry.Description,
			RegisteredDate: p.entry.RegisteredDate,
		})
		total = total.Add(p.amount)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return &Alert{
		ID:         uc.idGen.Generate(),
		Type:       AlertHighValue,
		Severity:   SeverityMedium,
		Title:      "Unusually large amounts",
		Message:    fmt.Sprintf("%d entries above %s this month", len(rows), money.Format(limitDec, true)),
		Value:      total,
		ValueLimit: limitDec,
		Quantity:   len(rows),
		Entries:    rows,
	}, nil
}

// missingSupplierAlert flags every open or in-progress entry without a
// supplier, regardless of age. Settled entries are left alone.
func (uc *DashboardUseCase) missingSupplierAlert(ctx context.Context) (*Alert, error) {
	entries, err := uc.store.FindAll(ctx, EntryQuery{
		Statuses:        []domain.Status{domain.StatusOpen, domain.StatusInProgress},
		SupplierMissing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("missing-supplier alert: %w", err)
	}

	// The store matches raw status text; re-check after normalization so
	// only genuinely unsettled entries are reported.
	unique := aggregate.FilterByStatus(
		normalizeAll(domain.Dedupe(entries)),
		func(e domain.Entry) string { return string(e.Status) },
		string(domain.StatusOpen), string(domain.StatusInProgress),
	)
	if len(unique) == 0 {
		return nil, nil
	}

	var rows []AlertEntry
	total := decimal.Zero
	for _, e := range unique {
		amount := entryAmount(e)
		rows = append(rows, AlertEntry{
			AccountNumber:  e.AccountNumber,
			Amount:         amount,
			Status:         e.Status,
			Description:    e.Description,
			RegisteredDate: e.RegisteredDate,
		})
		total = total.Add(amount)
	}

	return &Alert{
		ID:       uc.idGen.Generate(),
		Type:     AlertMissingSupplier,
		Severity: SeverityLow,
		Title:    "Entries without supplier",
		Message:  fmt.Sprintf("%d unsettled entries have no supplier recorded", len(rows)),
		Value:    total,
		Quantity: len(rows),
		Entries:  rows,
	}, nil
}
