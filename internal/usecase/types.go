package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/aggregate"
	"github.com/iho/ledgerdash/internal/dates"
	"github.com/iho/ledgerdash/internal/domain"
)

// Filters is the typed query filter shared by the dashboard operations.
// Explicit DateStart/DateEnd take precedence over the named Period. The
// omitempty tags keep cache keys identical when optional fields are unset.
type Filters struct {
	Period         string `json:"period,omitempty"`
	DateStart      string `json:"date_start,omitempty"`
	DateEnd        string `json:"date_end,omitempty"`
	Status         string `json:"status,omitempty"`
	Grouping       string `json:"grouping,omitempty"`
	Limit          int    `json:"limit,omitempty"`
	Days           int    `json:"days,omitempty"`
	OnlyOverdue    bool   `json:"only_overdue,omitempty"`
	Kind           string `json:"kind,omitempty"`
	PeriodCurrent  string `json:"period_current,omitempty"`
	PeriodPrevious string `json:"period_previous,omitempty"`
}

// StatusGroup is the per-status slice of a summary.
type StatusGroup struct {
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
	Mean     decimal.Decimal `json:"mean"`
}

// OverdueSummary is the overdue slice of a summary.
type OverdueSummary struct {
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// SummaryData is the headline aggregate. TotalOverall always covers every
// entry in range regardless of status.
type SummaryData struct {
	Period       dates.Range            `json:"period"`
	TotalOverall aggregate.Stats        `json:"total_overall"`
	ByStatus     map[string]StatusGroup `json:"by_status"`
	Overdue      OverdueSummary         `json:"overdue"`
}

// CashFlowBucket is one period of the cash-flow series, split by status.
type CashFlowBucket struct {
	Period     string          `json:"period"`
	Open       decimal.Decimal `json:"open"`
	Paid       decimal.Decimal `json:"paid"`
	InProgress decimal.Decimal `json:"in_progress"`
	Cancelled  decimal.Decimal `json:"cancelled"`
	Total      decimal.Decimal `json:"total"`
}

// CashFlowData is the due-date bucketed flow.
type CashFlowData struct {
	Period   dates.Range      `json:"period"`
	Grouping string           `json:"grouping"`
	Flow     []CashFlowBucket `json:"flow"`
}

// GroupSlice is a serializable grouping bucket (suppliers, departments).
type GroupSlice struct {
	Key      string          `json:"key"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
	Mean     decimal.Decimal `json:"mean"`
}

// DREData is the department breakdown over raw (non-deduplicated) DRE rows.
type DREData struct {
	Period      dates.Range  `json:"period"`
	Departments []GroupSlice `json:"departments"`
}

// TopSuppliersData ranks suppliers by deduplicated entry totals.
type TopSuppliersData struct {
	Period    dates.Range  `json:"period"`
	Suppliers []GroupSlice `json:"suppliers"`
}

// DueEntry is one row of the due-date report.
type DueEntry struct {
	AccountNumber string          `json:"account_number"`
	Supplier      string          `json:"supplier"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       string          `json:"due_date"`
	Status        domain.Status   `json:"status"`
	DaysUntilDue  int             `json:"days_until_due"`
	Overdue       bool            `json:"overdue"`
}

// DueEntriesData lists open entries inside the due window.
type DueEntriesData struct {
	Days        int             `json:"days"`
	OnlyOverdue bool            `json:"only_overdue"`
	Entries     []DueEntry      `json:"entries"`
	Total       int             `json:"total"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// KPIData carries the headline indicators.
type KPIData struct {
	Period dates.Range `json:"period"`
	KPIs   KPIs        `json:"kpis"`
}

// KPIs are the individual indicator values.
type KPIs struct {
	TotalEntries   int             `json:"total_entries"`
	TotalValue     decimal.Decimal `json:"total_value"`
	MeanValue      decimal.Decimal `json:"mean_value"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalOpen      decimal.Decimal `json:"total_open"`
	PaymentRate    decimal.Decimal `json:"payment_rate"`
	OverdueEntries int             `json:"overdue_entries"`
	OverdueValue   decimal.Decimal `json:"overdue_value"`
}

// ComparePeriodsData contrasts two named periods.
type ComparePeriodsData struct {
	PeriodCurrent  dates.Range     `json:"period_current"`
	PeriodPrevious dates.Range     `json:"period_previous"`
	Current        aggregate.Stats `json:"current"`
	Previous       aggregate.Stats `json:"previous"`
	Variation      decimal.Decimal `json:"variation"`
	VariationValue decimal.Decimal `json:"variation_value"`
}

// Alert severities and types.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"

	AlertOverdue         = "overdue"
	AlertNearDue         = "near_due"
	AlertHighValue       = "high_value"
	AlertMissingSupplier = "missing_supplier"
)

// AlertEntry is one entry attached to an alert.
type AlertEntry struct {
	AccountNumber  string          `json:"account_number"`
	Supplier       string          `json:"supplier,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Status         domain.Status   `json:"status"`
	Description    string          `json:"description,omitempty"`
	DueDate        string          `json:"due_date,omitempty"`
	RegisteredDate string          `json:"registered_date,omitempty"`
	DaysOverdue    int             `json:"days_overdue,omitempty"`
	DaysUntilDue   int             `json:"days_until_due,omitempty"`
}

// Alert is one operator-facing alert with its offending entries.
type Alert struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Severity   string          `json:"severity"`
	Title      string          `json:"title"`
	Message    string          `json:"message"`
	Value      decimal.Decimal `json:"value"`
	ValueLimit decimal.Decimal `json:"value_limit,omitempty"`
	Quantity   int             `json:"quantity"`
	Entries    []AlertEntry    `json:"entries"`
}

// AlertsData is the alert feed.
type AlertsData struct {
	Alerts []Alert `json:"alerts"`
	Total  int     `json:"total"`
}

// TimelinePoint is one bucket of the revenue/expense timeline.
type TimelinePoint struct {
	Period  string          `json:"period"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
	Total   decimal.Decimal `json:"total"`
}

// TimelineData is the registration-date bucketed evolution.
type TimelineData struct {
	Period   dates.Range     `json:"period"`
	Grouping string          `json:"grouping"`
	Points   []TimelinePoint `json:"points"`
}

// CategorySlice is one slice of the category distribution.
type CategorySlice struct {
	Name     string          `json:"name"`
	Value    decimal.Decimal `json:"value"`
	Quantity int             `json:"quantity"`
}

// CategoryData is the distribution over category, group or subgroup.
type CategoryData struct {
	Period       dates.Range     `json:"period"`
	Kind         string          `json:"kind"`
	Distribution []CategorySlice `json:"distribution"`
}

// BankSlice is one bank's paid/open split.
type BankSlice struct {
	Name     string          `json:"name"`
	Total    decimal.Decimal `json:"total"`
	Paid     decimal.Decimal `json:"paid"`
	Open     decimal.Decimal `json:"open"`
	Quantity int             `json:"quantity"`
}

// BankData is the per-bank breakdown.
type BankData struct {
	Period dates.Range `json:"period"`
	Banks  []BankSlice `json:"banks"`
}

// TopEntry is one entry of the largest-amounts report.
type TopEntry struct {
	AccountNumber  string          `json:"account_number"`
	Supplier       string          `json:"supplier"`
	Amount         decimal.Decimal `json:"amount"`
	Status         domain.Status   `json:"status"`
	DueDate        string          `json:"due_date"`
	RegisteredDate string          `json:"registered_date"`
}

// TopEntriesData ranks individual entries by amount.
type TopEntriesData struct {
	Period  dates.Range `json:"period"`
	Entries []TopEntry  `json:"entries"`
}

// MonthTotals summarizes one calendar month.
type MonthTotals struct {
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
	Paid     decimal.Decimal `json:"paid"`
	Open     decimal.Decimal `json:"open"`
	Mean     decimal.Decimal `json:"mean"`
}

// MonthVariation is the month-over-month change in percent.
type MonthVariation struct {
	Quantity decimal.Decimal `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// CompareMonthsData contrasts the running month with the previous one.
type CompareMonthsData struct {
	CurrentMonth  MonthTotals    `json:"current_month"`
	PreviousMonth MonthTotals    `json:"previous_month"`
	Variation     MonthVariation `json:"variation"`
}
