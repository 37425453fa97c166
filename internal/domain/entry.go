package domain

import "strings"

// Status is the lifecycle state of a ledger entry.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusPaid       Status = "Paid"
	StatusInProgress Status = "In progress"
	StatusCancelled  Status = "Cancelled"
)

// Entry is one row of the payables/receivables table. An account number is
// not unique: the same account appears once per DRE split and installment.
// Amount and date fields come from the store as raw text in heterogeneous
// formats; parsing them is the job of the money and dates packages.
type Entry struct {
	ID                string
	AccountNumber     string
	InstallmentNumber string
	RawAmount         string
	RawDREAmount      string
	Status            Status
	DueDate           string
	RegisteredDate    string
	PaymentDate       string
	Supplier          string
	Department        string
	Category          string
	Group             string
	Subgroup          string
	Bank              string
	Description       string
}

// NormalizeStatus maps free-form status text to the canonical values.
// Unrecognized text passes through trimmed; empty defaults to Open.
func NormalizeStatus(raw string) Status {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return StatusOpen
	}

	switch strings.ToLower(trimmed) {
	case "open", "aberto":
		return StatusOpen
	case "paid", "pago":
		return StatusPaid
	case "in progress", "in_progress", "em andamento", "em_andamento":
		return StatusInProgress
	case "cancelled", "canceled", "cancelado":
		return StatusCancelled
	}

	return Status(trimmed)
}

// Normalize returns a copy of the entry with its status canonicalized.
func (e Entry) Normalize() Entry {
	e.Status = NormalizeStatus(string(e.Status))
	return e
}

// Dedupe collapses entries sharing an account number down to the first row
// seen for that number. DRE splits and extra installments are dropped, which
// is what account-level aggregates want; DRE aggregates use the raw set.
func Dedupe(entries []Entry) []Entry {
	seen := make(map[string]struct{}, len(entries))
	unique := make([]Entry, 0, len(entries))

	for _, e := range entries {
		if _, ok := seen[e.AccountNumber]; ok {
			continue
		}
		seen[e.AccountNumber] = struct{}{}
		unique = append(unique, e)
	}

	return unique
}
