// Package dates converts the heterogeneous date text found in ledger rows
// into canonical values and resolves named reporting periods.
package dates

import (
	"regexp"
	"time"
)

// Range is an inclusive reporting period with ISO (YYYY-MM-DD) bounds.
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

const isoDate = "2006-01-02"

var (
	isoRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashRe  = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	dashRe   = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
	fallback = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}
)

// Parse recognizes YYYY-MM-DD, DD/MM/YYYY and DD-MM-YYYY before trying a set
// of timestamp layouts. It reports false instead of failing; callers exclude
// unparseable dates from date-bucketed aggregates.
func Parse(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}

	switch {
	case isoRe.MatchString(raw):
		t, err := time.Parse(isoDate, raw)
		return t, err == nil
	case slashRe.MatchString(raw):
		t, err := time.Parse("02/01/2006", raw)
		return t, err == nil
	case dashRe.MatchString(raw):
		t, err := time.Parse("02-01-2006", raw)
		return t, err == nil
	}

	for _, layout := range fallback {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// FormatISO renders a date as YYYY-MM-DD.
func FormatISO(t time.Time) string {
	return t.Format(isoDate)
}

// Truncate strips the time of day.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// calendarDay pins a value's calendar date to UTC midnight. Parsed dates are
// UTC while now carries the server's zone; comparing each value's own
// midnight would shift results by the zone offset.
func calendarDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// IsOverdue reports whether the date is strictly before today at day
// granularity.
func IsOverdue(t, now time.Time) bool {
	return calendarDay(t).Before(calendarDay(now))
}

// DaysUntil returns the whole days from today until t; negative when t is in
// the past.
func DaysUntil(t, now time.Time) int {
	diff := calendarDay(t).Sub(calendarDay(now))
	return int(diff.Hours() / 24)
}

// ResolvePeriod turns a named period into concrete bounds relative to now.
// Unknown names resolve to the current month.
func ResolvePeriod(name string, now time.Time) Range {
	year, month, day := now.Date()
	loc := now.Location()

	var start, end time.Time

	switch name {
	case "today":
		start = time.Date(year, month, day, 0, 0, 0, 0, loc)
		end = start
	case "previous_month":
		start = time.Date(year, month-1, 1, 0, 0, 0, 0, loc)
		end = time.Date(year, month, 0, 0, 0, 0, 0, loc)
	case "current_year":
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		end = time.Date(year, time.December, 31, 0, 0, 0, 0, loc)
	case "previous_year":
		start = time.Date(year-1, time.January, 1, 0, 0, 0, 0, loc)
		end = time.Date(year-1, time.December, 31, 0, 0, 0, 0, loc)
	case "last_30_days":
		end = time.Date(year, month, day, 0, 0, 0, 0, loc)
		start = end.AddDate(0, 0, -30)
	case "last_90_days":
		end = time.Date(year, month, day, 0, 0, 0, 0, loc)
		start = end.AddDate(0, 0, -90)
	default: // current_month
		start = time.Date(year, month, 1, 0, 0, 0, 0, loc)
		end = time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
	}

	return Range{Start: FormatISO(start), End: FormatISO(end)}
}
