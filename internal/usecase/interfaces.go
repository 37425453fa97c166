package usecase

import (
	"context"
	"time"

	"github.com/iho/ledgerdash/internal/domain"
)

// DateField selects which entry date a query range applies to.
type DateField string

const (
	DateFieldRegistered DateField = "registered_date"
	DateFieldDue        DateField = "due_date"
)

// EntryQuery is the WHERE-clause contract for the read-only entry store:
// a date range on one field, status membership, non-empty-field requirements
// and the missing-supplier disjunction used by alerting.
type EntryQuery struct {
	DateField DateField
	DateFrom  string // inclusive ISO date, empty means unbounded
	DateTo    string
	Statuses  []domain.Status
	// NonEmptyFields lists columns that must be present and non-empty
	// (supplier, department, category, group, subgroup, bank).
	NonEmptyFields []string
	// SupplierMissing matches rows whose supplier is NULL or empty.
	SupplierMissing bool
	RequireDueDate  bool
	OrderByDueDate  bool
}

// EntryStore is the read interface over the ledger table. Implementations
// must return plain structs, never live handles.
type EntryStore interface {
	FindAll(ctx context.Context, q EntryQuery) ([]domain.Entry, error)
}

// Cache defines the best-effort cache operations. Implementations absorb
// backend failures; a failed lookup is just a miss.
type Cache interface {
	Key(prefix string, params any) string
	Get(ctx context.Context, key string, out any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Clear(ctx context.Context, prefix string)
}

// Clock abstracts time for deterministic period resolution in tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}
