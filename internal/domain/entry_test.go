package domain

import "testing"

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{"", StatusOpen},
		{"  ", StatusOpen},
		{"open", StatusOpen},
		{"OPEN", StatusOpen},
		{"Paid", StatusPaid},
		{"paid ", StatusPaid},
		{"in progress", StatusInProgress},
		{"in_progress", StatusInProgress},
		{"CANCELLED", StatusCancelled},
		{"canceled", StatusCancelled},
		{"Weird", Status("Weird")},
		{" Weird ", Status("Weird")},
	}

	for _, tt := range tests {
		if got := NormalizeStatus(tt.raw); got != tt.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDedupeKeepsFirstRowPerAccount(t *testing.T) {
	entries := []Entry{
		{AccountNumber: "100", Department: "IT"},
		{AccountNumber: "100", Department: "HR"},
		{AccountNumber: "101", Department: "IT"},
		{AccountNumber: "100", Department: "Legal"},
	}

	unique := Dedupe(entries)

	if len(unique) != 2 {
		t.Fatalf("expected 2 unique entries, got %d", len(unique))
	}
	if unique[0].AccountNumber != "100" || unique[0].Department != "IT" {
		t.Errorf("expected first row of account 100 to win, got %+v", unique[0])
	}
	if unique[1].AccountNumber != "101" {
		t.Errorf("expected account 101 second, got %+v", unique[1])
	}
}

func TestDedupeIsIdempotent(t *testing.T) {
	entries := []Entry{
		{AccountNumber: "100"},
		{AccountNumber: "100"},
		{AccountNumber: "101"},
	}

	once := Dedupe(entries)
	twice := Dedupe(once)

	if len(once) != len(twice) {
		t.Fatalf("dedupe not idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("entry %d changed on second dedupe", i)
		}
	}
}

func TestDedupeEmpty(t *testing.T) {
	if got := Dedupe(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %d entries", len(got))
	}
}
