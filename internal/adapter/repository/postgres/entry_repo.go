package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/infrastructure/metrics"
	"github.com/iho/ledgerdash/internal/usecase"
)

// dateColumns and presenceColumns whitelist the columns a query may touch;
// anything else is rejected before SQL is built.
var dateColumns = map[usecase.DateField]string{
	usecase.DateFieldRegistered: "registered_date",
	usecase.DateFieldDue:        "due_date",
}

var presenceColumns = map[string]string{
	"supplier":   "supplier",
	"department": "department",
	"category":   "category",
	"group":      "group_name",
	"subgroup":   "subgroup",
	"bank":       "bank",
}

const selectEntries = `
SELECT
	id,
	account_number,
	COALESCE(installment_number, ''),
	COALESCE(amount::text, ''),
	COALESCE(dre_amount::text, ''),
	COALESCE(status, ''),
	COALESCE(to_char(due_date, 'YYYY-MM-DD'), ''),
	COALESCE(to_char(registered_date, 'YYYY-MM-DD'), ''),
	COALESCE(to_char(payment_date, 'YYYY-MM-DD'), ''),
	COALESCE(supplier, ''),
	COALESCE(department, ''),
	COALESCE(category, ''),
	COALESCE(group_name, ''),
	COALESCE(subgroup, ''),
	COALESCE(bank, ''),
	COALESCE(description, '')
FROM entries`

// EntryRepository implements usecase.EntryStore over the entries table.
type EntryRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
	metrics *metrics.Metrics
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool, m *metrics.Metrics) *EntryRepository {
	return &EntryRepository{
		pool:    pool,
		retrier: NewRetrier(),
		metrics: m,
	}
}

// FindAll runs the filtered read. Results are plain value structs; callers
// never see live rows.
func (r *EntryRepository) FindAll(ctx context.Context, q usecase.EntryQuery) ([]domain.Entry, error) {
	query, args, err := buildQuery(q)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	var entries []domain.Entry
	err = r.retrier.Retry(ctx, func() error {
		rows, qErr := r.pool.Query(ctx, query, args...)
		if qErr != nil {
			return qErr
		}

		entries, qErr = scanEntries(rows)
		return qErr
	})

	if r.metrics != nil {
		r.metrics.DBQueries.WithLabelValues("find_entries").Inc()
		r.metrics.DBDuration.WithLabelValues("find_entries").Observe(time.Since(start).Seconds())
		if err != nil {
			r.metrics.DBErrors.WithLabelValues("find_entries").Inc()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("find entries: %w", err)
	}

	return entries, nil
}

func buildQuery(q usecase.EntryQuery) (string, []any, error) {
	dateField := q.DateField
	if dateField == "" {
		dateField = usecase.DateFieldRegistered
	}
	dateCol, ok := dateColumns[dateField]
	if !ok {
		return "", nil, fmt.Errorf("%w: date field %q", domain.ErrInvalidGrouping, q.DateField)
	}

	var (
		conds []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.DateFrom != "" {
		conds = append(conds, fmt.Sprintf("%s >= %s::date", dateCol, arg(q.DateFrom)))
	}
	if q.DateTo != "" {
		conds = append(conds, fmt.Sprintf("%s <= %s::date", dateCol, arg(q.DateTo)))
	}

	if len(q.Statuses) > 0 {
		statuses := make([]string, 0, len(q.Statuses))
		for _, s := range q.Statuses {
			statuses = append(statuses, string(s))
		}
		conds = append(conds, fmt.Sprintf("status = ANY(%s)", arg(statuses)))
	}

	for _, field := range q.NonEmptyFields {
		col, ok := presenceColumns[field]
		if !ok {
			return "", nil, fmt.Errorf("%w: field %q", domain.ErrInvalidGrouping, field)
		}
		conds = append(conds, fmt.Sprintf("COALESCE(btrim(%s), '') <> ''", col))
	}

	if q.SupplierMissing {
		conds = append(conds, "(supplier IS NULL OR btrim(supplier) = '')")
	}
	if q.RequireDueDate {
		conds = append(conds, "due_date IS NOT NULL")
	}

	var sb strings.Builder
	sb.WriteString(selectEntries)
	if len(conds) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	if q.OrderByDueDate {
		sb.WriteString("\nORDER BY due_date ASC NULLS LAST, account_number ASC")
	} else {
		sb.WriteString("\nORDER BY registered_date ASC NULLS LAST, account_number ASC")
	}

	return sb.String(), args, nil
}

func scanEntries(rows pgx.Rows) ([]domain.Entry, error) {
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var e domain.Entry
		var status string
		if err := rows.Scan(
			&e.ID,
			&e.AccountNumber,
			&e.InstallmentNumber,
			&e.RawAmount,
			&e.RawDREAmount,
			&status,
			&e.DueDate,
			&e.RegisteredDate,
			&e.PaymentDate,
			&e.Supplier,
			&e.Department,
			&e.Category,
			&e.Group,
			&e.Subgroup,
			&e.Bank,
			&e.Description,
		); err != nil {
			return nil, err
		}
		e.Status = domain.Status(status)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
