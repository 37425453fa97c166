package usecase_test

import (
	"context"
	"testing"

	"github.com/iho/ledgerdash/internal/usecase"
)

func TestDashboardUseCase_DREByDepartment(t *testing.T) {
	store := &fakeStore{entries: sampleEntries()}
	uc := newDashboard(store, newMemCache())

	data, err := uc.DREByDepartment(context.Background(), usecase.Filters{Period: "current_month"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.calls) != 1 {
		t.Fatalf("expected 1 store call, got %d", len(store.calls))
	}
	if got := store.calls[0].NonEmptyFields; len(got) != 1 || got[0] != "department" {
		t.Errorf("expected a department presence filter, got %v", got)
	}

	// Both DRE splits of account 100 count: 100 + 50. Account 101 has no
	// DRE value and is excluded.
	if len(data.Departments) != 1 {
		t.Fatalf("expected 1 department, got %d", len(data.Departments))
	}
	ops := data.Departments[0]
	if ops.Key != "Operations" {
		t.Errorf("expected Operations, got %s", ops.Key)
	}
	if got := ops.Total.String(); got != "150" {
		t.Errorf("expected DRE total 150 across splits, got %s", got)
	}
	if ops.Quantity != 2 {
		t.Errorf("expected both splits counted, got %d", ops.Quantity)
	}
}

func TestDashboardUseCase_TopSuppliers(t *testing.T) {
	store := &fakeStore{entries: sampleEntries()}
	uc := newDashboard(store, newMemCache())

	data, err := uc.TopSuppliers(context.Background(), usecase.Filters{Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(data.Suppliers) != 2 {
		t.Fatalf("expected 2 suppliers, got %d", len(data.Suppliers))
	}
	// Acme's deduplicated total (200) outranks Globex (100).
	if data.Suppliers[0].Key != "Acme" || data.Suppliers[0].Total.String() != "200" {
		t.Errorf("unexpected top supplier: %+v", data.Suppliers[0])
	}
	if data.Suppliers[0].Quantity != 1 {
		t.Errorf("expected Acme's splits deduplicated, got quantity %d", data.Suppliers[0].Quantity)
	}
	if data.Suppliers[1].Key != "Globex" {
		t.Errorf("unexpected second supplier: %+v", data.Suppliers[1])
	}
}

func TestDashboardUseCase_CategoryDistribution(t *testing.T) {
	entries := sampleEntries()
	entries[0].Category = "Services"
	entries[1].Category = "Services"
	entries[2].Category = "Goods"
	store := &fakeStore{entries: entries}
	uc := newDashboard(store, newMemCache())

	data, err := uc.CategoryDistribution(context.Background(), usecase.Filters{Kind: "bogus"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if data.Kind != "category" {
		t.Errorf("unknown kind should fall back to category, got %s", data.Kind)
	}
	if len(data.Distribution) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(data.Distribution))
	}
	if data.Distribution[0].Name != "Services" || data.Distribution[0].Value.String() != "200" {
		t.Errorf("unexpected first slice: %+v", data.Distribution[0])
	}
	if data.Distribution[1].Name != "Goods" || data.Distribution[1].Value.String() != "100" {
		t.Errorf("unexpected second slice: %+v", data.Distribution[1])
	}
}

func TestDashboardUseCase_BankBreakdown(t *testing.T) {
	entries := sampleEntries()
	entries[0].Bank = "Banco Alpha"
	entries[1].Bank = "Banco Alpha"
	entries[2].Bank = "Banco Beta"
	store := &fakeStore{entries: entries}
	uc := newDashboard(store, newMemCache())

	data, err := uc.BankBreakdown(context.Background(), usecase.Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(data.Banks) != 2 {
		t.Fatalf("expected 2 banks, got %d", len(data.Banks))
	}
	alpha := data.Banks[0]
	if alpha.Name != "Banco Alpha" {
		t.Fatalf("expected Banco Alpha first by total, got %s", alpha.Name)
	}
	if alpha.Total.String() != "200" || alpha.Paid.String() != "200" || !alpha.Open.IsZero() {
		t.Errorf("unexpected Banco Alpha split: %+v", alpha)
	}
	beta := data.Banks[1]
	if beta.Total.String() != "100" || beta.Open.String() != "100" || !beta.Paid.IsZero() {
		t.Errorf("unexpected Banco Beta split: %+v", beta)
	}
}

func TestDashboardUseCase_TopEntries(t *testing.T) {
	store := &fakeStore{entries: sampleEntries()}
	uc := newDashboard(store, newMemCache())

	data, err := uc.TopEntries(context.Background(), usecase.Filters{Limit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(data.Entries) != 1 {
		t.Fatalf("expected the limit to apply, got %d entries", len(data.Entries))
	}
	top := data.Entries[0]
	if top.AccountNumber != "100" || top.Amount.String() != "200" {
		t.Errorf("unexpected top entry: %+v", top)
	}
	if top.Status != "Paid" {
		t.Errorf("expected normalized status Paid, got %s", top.Status)
	}
}
