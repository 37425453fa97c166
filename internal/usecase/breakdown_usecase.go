package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/aggregate"
	"github.com/iho/ledgerdash/internal/domain"
)

// DREByDepartment sums DRE split amounts per department. The raw row set is
// used on purpose: every split of an account contributes to its department.
func (uc *DashboardUseCase) DREByDepartment(ctx context.Context, f Filters) (data *DREData, err error) {
	start := time.Now()
	defer func() { uc.observe("dre_by_department", start, err) }()

	key := uc.cache.Key("dre-department", f)
	cached := &DREData{}
	if uc.cache.Get(ctx, key, cached) {
		return cached, nil
	}

	rng := uc.resolveRange(f)

	entries, err := uc.store.FindAll(ctx, EntryQuery{
		DateField:      DateFieldRegistered,
		DateFrom:       rng.Start,
		DateTo:         rng.End,
		NonEmptyFields: []string{"department"},
	})
	if err != nil {
		return nil, err
	}

	// No de-duplication here, but guard against rows the store let through
	// with a blank department or a non-positive split value.
	rows := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Department) == "" {
			continue
		}
		if !dreAmount(e).IsPositive() {
			continue
		}
		rows = append(rows, e)
	}

	grouped := aggregate.GroupBy(rows, func(e domain.Entry) string { return e.Department }, dreAmount)

	data = &DREData{
		Period:      rng,
		Departments: topGroups(grouped, limitOrDefault(f.Limit)),
	}

	uc.cache.Set(ctx, key, data, DefaultCacheTTL)
	return data, nil
}

// TopSuppliers ranks suppliers by total deduplicated amount.
func (uc *DashboardUseCase) TopSuppliers(ctx context.Context, f Filters) (data *TopSuppliersData, err error) {
	start := time.Now()
	defer func() { uc.observe("top_suppliers", start, err) }()

	key := uc.cache.Key("top-suppliers", f)
	cached := &TopSuppliersData{}
	if uc.cache.Get(ctx, key, cached) {
		return cached, nil
	}

	rng := uc.resolveRange(f)

	entries, err := uc.store.FindAll(ctx, EntryQuery{
		DateField:      DateFieldRegistered,
		DateFrom:       rng.Start,
		DateTo:         rng.End,
		NonEmptyFields: []string{"supplier"},
	})
	if err != nil {
		return nil, err
	}

	unique := normalizeAll(domain.Dedupe(entries))

	rows := make([]domain.Entry, 0, len(unique))
	for _, e := range unique {
		if strings.TrimSpace(e.Supplier) == "" {
			continue
		}
		if !entryAmount(e).IsPositive() {
			continue
		}
		rows = append(rows, e)
	}

	grouped := aggregate.GroupBy(rows, func(e domain.Entry) string { return e.Supplier }, entryAmount)

	data = &TopSuppliersData{
		Period:    rng,
		Suppliers: topGroups(grouped, limitOrDefault(f.Limit)),
	}

	uc.cache.Set(ctx, key, data, DefaultCacheTTL)
	return data, nil
}

// CategoryDistribution splits the period's totals by category, group or
// subgroup.
func (uc *DashboardUseCase) CategoryDistribution(ctx context.Context, f Filters) (data *CategoryData, err error) {
	start := time.Now()
	defer func() { uc.observe("category_distribution", start, err) }()

	key := uc.cache.Key("category-distribution", f)
	cached := &CategoryData{}
	if uc.cache.Get(ctx, key, cached) {
		return cached, nil
	}

	kind := f.Kind
	switch kind {
	case "group", "subgroup":
	default:
		kind = "category"
	}

	rng := uc.resolveRange(f)

	entries, err := uc.store.FindAll(ctx, EntryQuery{
		DateField:      DateFieldRegistered,
		DateFrom:       rng.Start,
		DateTo:         rng.End,
		NonEmptyFields: []string{kind},
	})
	if err != nil {
		return nil, err
	}

	unique := normalizeAll(domain.Dedupe(entries))

	field := func(e domain.Entry) string {
		switch kind {
		case "group":
			return e.Group
		case "subgroup":
			return e.Subgroup
		default:
			return e.Category
		}
	}

	grouped := aggregate.GroupBy(unique, field, entryAmount)

	slices := make([]CategorySlice, 0, len(grouped))
	for _, g := range grouped {
		slices = append(slices, CategorySlice{Name: g.Key, Value: g.Total, Quantity: g.Quantity})
	}
	sort.SliceStable(slices, func(i, j int) bool { return slices[i].Value.GreaterThan(slices[j].Value) })
	if len(slices) > DefaultTopLimit {
		slices = slices[:DefaultTopLimit]
	}

	data = &CategoryData{Period: rng, Kind: kind, Distribution: slices}
	uc.cache.Set(ctx, key, data, DefaultCacheTTL)
	return data, nil
}

// BankBreakdown reports each bank's total with its paid/open split.
func (uc *DashboardUseCase) BankBreakdown(ctx context.Context, f Filters) (data *BankData, err error) {
	start := time.Now()
	defer func() { uc.observe("bank_breakdown", start, err) }()

	key := uc.cache.Key("bank-breakdown", f)
	cached := &BankData{}
	if uc.cache.Get(ctx, key, cached) {
		return cached, nil
	}

	rng := uc.resolveRange(f)

	entries, err := uc.store.FindAll(ctx, EntryQuery{
		DateField:      DateFieldRegistered,
		DateFrom:       rng.Start,
		DateTo:         rng.End,
		NonEmptyFields: []string{"bank"},
	})
	if err != nil {
		return nil, err
	}

	unique := normalizeAll(domain.Dedupe(entries))
	banks := make(map[string]*BankSlice)

	for _, e := range unique {
		name := strings.TrimSpace(e.Bank)
		if name == "" {
			name = aggregate.NotInformed
		}

		b, ok := banks[name]
		if !ok {
			b = &BankSlice{Name: name, Total: decimal.Zero, Paid: decimal.Zero, Open: decimal.Zero}
			banks[name] = b
		}

		v := entryAmount(e)
		b.Total = b.Total.Add(v)
		b.Quantity++
		if e.Status == domain.StatusPaid {
			b.Paid = b.Paid.Add(v)
		} else {
			b.Open = b.Open.Add(v)
		}
	}

	slices := make([]BankSlice, 0, len(banks))
	for _, b := range banks {
		slices = append(slices, *b)
	}
	sort.SliceStable(slices, func(i, j int) bool { return slices[i].Total.GreaterThan(slices[j].Total) })

	data = &BankData{Period: rng, Banks: slices}
	uc.cache.Set(ctx, key, data, DefaultCacheTTL)
	return data, nil
}

// TopEntries ranks individual deduplicated entries by amount.
func (uc *DashboardUseCase) TopEntries(ctx context.Context, f Filters) (data *TopEntriesData, err error) {
	start := time.Now()
	defer func() { uc.observe("top_entries", start, err) }()

	key := uc.cache.Key("top-entries", f)
	cached := &TopEntriesData{}
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

	top := make([]TopEntry, 0, len(unique))
	for _, e := range unique {
		top = append(top, TopEntry{
			AccountNumber:  e.AccountNumber,
			Supplier:       supplierOrNotInformed(e.Supplier),
			Amount:         entryAmount(e),
			Status:         e.Status,
			DueDate:        e.DueDate,
			RegisteredDate: e.RegisteredDate,
		})
	}

	top = aggregate.SortByValue(top, func(t TopEntry) decimal.Decimal { return t.Amount }, limitOrDefault(f.Limit))

	data = &TopEntriesData{Period: rng, Entries: top}
	uc.cache.Set(ctx, key, data, DefaultCacheTTL)
	return data, nil
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultTopLimit
	}
	return limit
}

func supplierOrNotInformed(supplier string) string {
	if strings.TrimSpace(supplier) == "" {
		return aggregate.NotInformed
	}
	return supplier
}

// topGroups flattens a GroupBy result into serializable slices ordered
// descending by total.
func topGroups(grouped map[string]*aggregate.Group[domain.Entry], limit int) []GroupSlice {
	slices := make([]GroupSlice, 0, len(grouped))
	for _, g := range grouped {
		slices = append(slices, GroupSlice{Key: g.Key, Quantity: g.Quantity, Total: g.Total, Mean: g.Mean})
	}

	sorted := aggregate.SortByValue(slices, func(s GroupSlice) decimal.Decimal { return s.Total }, limit)
	return sorted
}
