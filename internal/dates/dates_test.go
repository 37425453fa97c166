package dates

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"2025-01-15", "2025-01-15", true},
		{"15/01/2025", "2025-01-15", true},
		{"15-01-2025", "2025-01-15", true},
		{"2025-01-15T08:30:00Z", "2025-01-15", true},
		{"2025-01-15 08:30:00", "2025-01-15", true},
		{"", "", false},
		{"not a date", "", false},
		{"32/01/2025", "", false},
	}

	for _, tt := range tests {
		got, ok := Parse(tt.raw)
		if ok != tt.ok {
			t.Errorf("Parse(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			continue
		}
		if ok && FormatISO(got) != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.raw, FormatISO(got), tt.want)
		}
	}
}

func TestResolvePeriod(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"today", "2025-03-15", "2025-03-15"},
		{"current_month", "2025-03-01", "2025-03-31"},
		{"previous_month", "2025-02-01", "2025-02-28"},
		{"current_year", "2025-01-01", "2025-12-31"},
		{"previous_year", "2024-01-01", "2024-12-31"},
		{"last_30_days", "2025-02-13", "2025-03-15"},
		{"last_90_days", "2024-12-15", "2025-03-15"},
		{"nonsense", "2025-03-01", "2025-03-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePeriod(tt.name, fixedNow)
			if got.Start != tt.start || got.End != tt.end {
				t.Errorf("ResolvePeriod(%q) = %+v, want {%s %s}", tt.name, got, tt.start, tt.end)
			}
		})
	}
}

func TestResolvePeriodPreviousMonthAcrossYear(t *testing.T) {
	jan := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	got := ResolvePeriod("previous_month", jan)
	if got.Start != "2024-12-01" || got.End != "2024-12-31" {
		t.Errorf("previous_month in January = %+v", got)
	}
}

func TestIsOverdue(t *testing.T) {
	yesterday := time.Date(2025, time.March, 14, 23, 0, 0, 0, time.UTC)
	today := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2025, time.March, 16, 1, 0, 0, 0, time.UTC)

	if !IsOverdue(yesterday, fixedNow) {
		t.Error("yesterday should be overdue")
	}
	if IsOverdue(today, fixedNow) {
		t.Error("today should not be overdue")
	}
	if IsOverdue(tomorrow, fixedNow) {
		t.Error("tomorrow should not be overdue")
	}
}

func TestDayMathAcrossZones(t *testing.T) {
	// Parsed dates are UTC; the wall clock may not be. The same calendar
	// day must never count as overdue regardless of the server's zone.
	recife := time.FixedZone("UTC-3", -3*60*60)
	localNow := time.Date(2025, time.March, 15, 10, 0, 0, 0, recife)

	due, ok := Parse("2025-03-15")
	if !ok {
		t.Fatal("Parse failed")
	}

	if IsOverdue(due, localNow) {
		t.Error("entry due today reported overdue under a negative zone offset")
	}
	if got := DaysUntil(due, localNow); got != 0 {
		t.Errorf("DaysUntil same day = %d, want 0", got)
	}

	tomorrow, _ := Parse("2025-03-16")
	if got := DaysUntil(tomorrow, localNow); got != 1 {
		t.Errorf("DaysUntil tomorrow = %d, want 1", got)
	}
}

func TestDaysUntil(t *testing.T) {
	due := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	if got := DaysUntil(due, fixedNow); got != 5 {
		t.Errorf("DaysUntil = %d, want 5", got)
	}

	past := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	if got := DaysUntil(past, fixedNow); got != -5 {
		t.Errorf("DaysUntil past = %d, want -5", got)
	}
}
