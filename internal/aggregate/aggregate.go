// Package aggregate provides grouping, period-bucketing and statistics
// primitives over arbitrary record collections. Extractor funcs decouple it
// from any concrete row type; all money math is decimal.
package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/dates"
)

// NotInformed is the sentinel bucket for records missing the grouping field.
const NotInformed = "Not informed"

// Group accumulates records sharing one grouping key.
type Group[T any] struct {
	Key      string          `json:"key"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
	Mean     decimal.Decimal `json:"mean"`
	Items    []T             `json:"-"`
}

// PeriodBucket accumulates records falling into one calendar bucket.
type PeriodBucket struct {
	Period   string          `json:"period"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
	Mean     decimal.Decimal `json:"mean"`
}

// Stats summarizes the amounts of a record set. Only positive amounts feed
// Min/Mean/Max; Quantity counts every record.
type Stats struct {
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
	Mean     decimal.Decimal `json:"mean"`
	Min      decimal.Decimal `json:"min"`
	Max      decimal.Decimal `json:"max"`
}

// ZeroStats is the all-zero result for empty input.
func ZeroStats() Stats {
	return Stats{
		Total: decimal.Zero,
		Mean:  decimal.Zero,
		Min:   decimal.Zero,
		Max:   decimal.Zero,
	}
}

// GroupBy buckets records by key, summing value per bucket. Records with an
// empty key land in the NotInformed bucket.
func GroupBy[T any](records []T, key func(T) string, value func(T) decimal.Decimal) map[string]*Group[T] {
	grouped := make(map[string]*Group[T])

	for _, r := range records {
		k := strings.TrimSpace(key(r))
		if k == "" {
			k = NotInformed
		}

		g, ok := grouped[k]
		if !ok {
			g = &Group[T]{Key: k, Total: decimal.Zero, Mean: decimal.Zero}
			grouped[k] = g
		}

		g.Quantity++
		g.Total = g.Total.Add(value(r))
		g.Items = append(g.Items, r)
	}

	for _, g := range grouped {
		if g.Quantity > 0 {
			g.Mean = g.Total.Div(decimal.NewFromInt(int64(g.Quantity)))
		}
	}

	return grouped
}

// GroupByPeriod buckets records by the calendar period of their date field.
// Granularity is day, month or year (anything else falls back to month).
// Records whose date does not parse are silently excluded. The result is
// ordered ascending by period key, which is chronological for these formats.
func GroupByPeriod[T any](records []T, date func(T) string, granularity string, value func(T) decimal.Decimal) []PeriodBucket {
	grouped := make(map[string]*PeriodBucket)

	for _, r := range records {
		t, ok := dates.Parse(date(r))
		if !ok {
			continue
		}

		key := BucketKey(t, granularity)

		b, exists := grouped[key]
		if !exists {
			b = &PeriodBucket{Period: key, Total: decimal.Zero, Mean: decimal.Zero}
			grouped[key] = b
		}

		b.Quantity++
		b.Total = b.Total.Add(value(r))
	}

	result := make([]PeriodBucket, 0, len(grouped))
	for _, b := range grouped {
		if b.Quantity > 0 {
			b.Mean = b.Total.Div(decimal.NewFromInt(int64(b.Quantity)))
		}
		result = append(result, *b)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Period < result[j].Period
	})

	return result
}

// BucketKey formats a date as its period key: YYYY-MM-DD, YYYY-MM or YYYY.
func BucketKey(t time.Time, granularity string) string {
	switch granularity {
	case "day":
		return t.Format("2006-01-02")
	case "year":
		return t.Format("2006")
	default:
		return t.Format("2006-01")
	}
}

// FilterByStatus keeps records whose status matches any of the given values.
// An empty status list keeps everything.
func FilterByStatus[T any](records []T, status func(T) string, statuses ...string) []T {
	if len(statuses) == 0 {
		return records
	}

	kept := make([]T, 0, len(records))
	for _, r := range records {
		s := strings.TrimSpace(status(r))
		for _, want := range statuses {
			if strings.TrimSpace(want) == s {
				kept = append(kept, r)
				break
			}
		}
	}
	return kept
}

// CalculateStats computes quantity/total/mean/min/max over records. Zero and
// negative amounts count toward Quantity but are excluded from the other
// fields. Empty input yields all-zero stats.
func CalculateStats[T any](records []T, value func(T) decimal.Decimal) Stats {
	stats := ZeroStats()
	stats.Quantity = len(records)

	if len(records) == 0 {
		return stats
	}

	positive := make([]decimal.Decimal, 0, len(records))
	for _, r := range records {
		if v := value(r); v.IsPositive() {
			positive = append(positive, v)
		}
	}

	if len(positive) == 0 {
		return stats
	}

	min, max := positive[0], positive[0]
	total := decimal.Zero
	for _, v := range positive {
		total = total.Add(v)
		if v.LessThan(min) {
			min = v
		}
		if v.GreaterThan(max) {
			max = v
		}
	}

	stats.Total = total
	stats.Mean = total.Div(decimal.NewFromInt(int64(len(positive))))
	stats.Min = min
	stats.Max = max
	return stats
}

// SortByValue returns records sorted descending by value; the sort is stable
// so equal values keep their input order. A positive limit truncates.
func SortByValue[T any](items []T, value func(T) decimal.Decimal, limit int) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		return value(sorted[i]).GreaterThan(value(sorted[j]))
	})

	if limit > 0 && limit < len(sorted) {
		return sorted[:limit]
	}
	return sorted
}
