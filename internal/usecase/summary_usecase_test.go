package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
	"github.com/iho/ledgerdash/internal/usecase/mocks"
)

// sampleEntries models the classic shape of the source table: account 100
// split over two DRE rows (same amount repeated), account 101 a single row.
func sampleEntries() []domain.Entry {
	return []domain.Entry{
		{
			ID:             "1",
			AccountNumber:  "100",
			RawAmount:      "200,00",
			RawDREAmount:   "100,00",
			Status:         "pago",
			Department:     "Operations",
			Supplier:       "Acme",
			RegisteredDate: "2025-03-02",
			DueDate:        "2025-03-20",
		},
		{
			ID:             "2",
			AccountNumber:  "100",
			RawAmount:      "200,00",
			RawDREAmount:   "50,00",
			Status:         "pago",
			Department:     "Operations",
			Supplier:       "Acme",
			RegisteredDate: "2025-03-02",
			DueDate:        "2025-03-20",
		},
		{
			ID:             "3",
			AccountNumber:  "101",
			RawAmount:      "100.00",
			Status:         "Open",
			Department:     "Finance",
			Supplier:       "Globex",
			RegisteredDate: "2025-03-05",
			DueDate:        "2025-03-10",
		},
	}
}

func TestDashboardUseCase_Summary(t *testing.T) {
	store := &fakeStore{entries: sampleEntries()}
	cache := newMemCache()
	uc := newDashboard(store, cache)

	data, err := uc.Summary(context.Background(), usecase.Filters{Period: "current_month"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Accounts 100 and 101 once each after de-duplication.
	if data.TotalOverall.Quantity != 2 {
		t.Errorf("expected 2 deduplicated entries, got %d", data.TotalOverall.Quantity)
	}
	if got := data.TotalOverall.Total.String(); got != "300" {
		t.Errorf("expected total 300, got %s", got)
	}

	paid, ok := data.ByStatus["Paid"]
	if !ok {
		t.Fatal("expected a Paid status group")
	}
	if paid.Quantity != 1 || paid.Total.String() != "200" {
		t.Errorf("unexpected Paid group: %+v", paid)
	}
	open, ok := data.ByStatus["Open"]
	if !ok {
		t.Fatal("expected an Open status group")
	}
	if open.Quantity != 1 || open.Total.String() != "100" {
		t.Errorf("unexpected Open group: %+v", open)
	}

	// Account 101 is open and due 2025-03-10, five days before fixedNow.
	if data.Overdue.Quantity != 1 {
		t.Errorf("expected 1 overdue entry, got %d", data.Overdue.Quantity)
	}
	if got := data.Overdue.Total.String(); got != "100" {
		t.Errorf("expected overdue total 100, got %s", got)
	}

	if data.Period.Start != "2025-03-01" || data.Period.End != "2025-03-31" {
		t.Errorf("unexpected period %+v", data.Period)
	}
}

func TestDashboardUseCase_SummaryIgnoresStatusFilter(t *testing.T) {
	store := &fakeStore{entries: sampleEntries()}
	uc := newDashboard(store, newMemCache())

	data, err := uc.Summary(context.Background(), usecase.Filters{Status: "Paid"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.calls) != 1 {
		t.Fatalf("expected 1 store call, got %d", len(store.calls))
	}
	if len(store.calls[0].Statuses) != 0 {
		t.Errorf("summary must not push a status filter to the store, got %v", store.calls[0].Statuses)
	}
	if data.TotalOverall.Quantity != 2 {
		t.Errorf("expected all statuses counted, got %d", data.TotalOverall.Quantity)
	}
}

func TestDashboardUseCase_SummaryCacheHit(t *testing.T) {
	store := &fakeStore{entries: sampleEntries()}
	cache := newMemCache()
	uc := newDashboard(store, cache)

	first, err := uc.Summary(context.Background(), usecase.Filters{Period: "current_month"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := uc.Summary(context.Background(), usecase.Filters{Period: "current_month"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.calls) != 1 {
		t.Errorf("expected the second call to hit the cache, store called %d times", len(store.calls))
	}
	if !first.TotalOverall.Total.Equal(second.TotalOverall.Total) {
		t.Errorf("cached result diverged: %s vs %s", first.TotalOverall.Total, second.TotalOverall.Total)
	}
}

func TestDashboardUseCase_SummaryStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeErr := errors.New("connection refused")
	store := mocks.NewMockEntryStore(ctrl)
	store.EXPECT().FindAll(gomock.Any(), gomock.Any()).Return(nil, storeErr)

	uc := newDashboard(store, newMemCache())

	_, err := uc.Summary(context.Background(), usecase.Filters{})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected the store error to propagate, got %v", err)
	}
}

func TestDashboardUseCase_KPIs(t *testing.T) {
	store := &fakeStore{
		FindAllFunc: func(_ context.Context, q usecase.EntryQuery) ([]domain.Entry, error) {
			if q.DateField == usecase.DateFieldDue {
				// Due window query of the overdue KPIs; nothing pending.
				return nil, nil
			}
			return sampleEntries(), nil
		},
	}
	uc := newDashboard(store, newMemCache())

	data, err := uc.KPIs(context.Background(), usecase.Filters{Period: "current_month"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if data.KPIs.TotalEntries != 2 {
		t.Errorf("expected 2 entries, got %d", data.KPIs.TotalEntries)
	}
	if got := data.KPIs.TotalPaid.String(); got != "200" {
		t.Errorf("expected paid total 200, got %s", got)
	}
	if got := data.KPIs.TotalOpen.String(); got != "100" {
		t.Errorf("expected open total 100, got %s", got)
	}
	// 200 of 300 paid.
	if got := data.KPIs.PaymentRate.String(); got != "66.67" {
		t.Errorf("expected payment rate 66.67, got %s", got)
	}
}

func TestDashboardUseCase_KPIsDueFailureDegrades(t *testing.T) {
	dueErr := errors.New("due query broken")
	store := &fakeStore{
		FindAllFunc: func(_ context.Context, q usecase.EntryQuery) ([]domain.Entry, error) {
			if q.DateField == usecase.DateFieldDue {
				return nil, dueErr
			}
			return sampleEntries(), nil
		},
	}
	uc := newDashboard(store, newMemCache())

	data, err := uc.KPIs(context.Background(), usecase.Filters{})
	if err != nil {
		t.Fatalf("a broken due report must not fail the KPIs: %v", err)
	}
	if data.KPIs.OverdueEntries != 0 || !data.KPIs.OverdueValue.IsZero() {
		t.Errorf("expected zeroed overdue KPIs, got %+v", data.KPIs)
	}
}

func TestDashboardUseCase_ComparePeriods(t *testing.T) {
	store := &fakeStore{
		FindAllFunc: func(_ context.Context, q usecase.EntryQuery) ([]domain.Entry, error) {
			switch q.DateFrom {
			case "2025-03-01":
				return []domain.Entry{
					{AccountNumber: "1", RawAmount: "150,00", Status: "Open", RegisteredDate: "2025-03-03"},
				}, nil
			case "2025-02-01":
				return []domain.Entry{
					{AccountNumber: "2", RawAmount: "100,00", Status: "Paid", RegisteredDate: "2025-02-10"},
				}, nil
			}
			return nil, nil
		},
	}
	uc := newDashboard(store, newMemCache())

	data, err := uc.ComparePeriods(context.Background(), usecase.Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := data.Current.Total.String(); got != "150" {
		t.Errorf("expected current total 150, got %s", got)
	}
	if got := data.Previous.Total.String(); got != "100" {
		t.Errorf("expected previous total 100, got %s", got)
	}
	if got := data.Variation.String(); got != "50" {
		t.Errorf("expected 50%% variation, got %s", got)
	}
	if got := data.VariationValue.String(); got != "50" {
		t.Errorf("expected variation value 50, got %s", got)
	}
}

func TestDashboardUseCase_CompareMonths(t *testing.T) {
	store := &fakeStore{
		FindAllFunc: func(_ context.Context, q usecase.EntryQuery) ([]domain.Entry, error) {
			switch q.DateFrom {
			case "2025-03-01":
				return []domain.Entry{
					{AccountNumber: "1", RawAmount: "300,00", Status: "pago", RegisteredDate: "2025-03-03"},
					{AccountNumber: "2", RawAmount: "100,00", Status: "Open", RegisteredDate: "2025-03-07"},
				}, nil
			case "2025-02-01":
				return []domain.Entry{
					{AccountNumber: "3", RawAmount: "200,00", Status: "Paid", RegisteredDate: "2025-02-12"},
				}, nil
			}
			return nil, nil
		},
	}
	uc := newDashboard(store, newMemCache())

	data, err := uc.CompareMonths(context.Background(), usecase.Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if data.CurrentMonth.Quantity != 2 || data.CurrentMonth.Total.String() != "400" {
		t.Errorf("unexpected current month: %+v", data.CurrentMonth)
	}
	if data.CurrentMonth.Paid.String() != "300" || data.CurrentMonth.Open.String() != "100" {
		t.Errorf("unexpected current month split: %+v", data.CurrentMonth)
	}
	if data.PreviousMonth.Quantity != 1 || data.PreviousMonth.Total.String() != "200" {
		t.Errorf("unexpected previous month: %+v", data.PreviousMonth)
	}
	// 400 vs 200 is +100%, 2 vs 1 entries is +100%.
	if got := data.Variation.Total.String(); got != "100" {
		t.Errorf("expected total variation 100, got %s", got)
	}
	if got := data.Variation.Quantity.String(); got != "100" {
		t.Errorf("expected quantity variation 100, got %s", got)
	}
}
