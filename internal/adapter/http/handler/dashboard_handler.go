package handler

import (
	"context"
	"net/http"

	"github.com/iho/ledgerdash/internal/usecase"
)

// DashboardService is the usecase surface the handler needs.
type DashboardService interface {
	Summary(ctx context.Context, f usecase.Filters) (*usecase.SummaryData, error)
	CashFlow(ctx context.Context, f usecase.Filters) (*usecase.CashFlowData, error)
	DREByDepartment(ctx context.Context, f usecase.Filters) (*usecase.DREData, error)
	TopSuppliers(ctx context.Context, f usecase.Filters) (*usecase.TopSuppliersData, error)
	DueEntries(ctx context.Context, f usecase.Filters) (*usecase.DueEntriesData, error)
	KPIs(ctx context.Context, f usecase.Filters) (*usecase.KPIData, error)
	ComparePeriods(ctx context.Context, f usecase.Filters) (*usecase.ComparePeriodsData, error)
	CompareMonths(ctx context.Context, f usecase.Filters) (*usecase.CompareMonthsData, error)
	Alerts(ctx context.Context, f usecase.Filters) (*usecase.AlertsData, error)
	Timeline(ctx context.Context, f usecase.Filters) (*usecase.TimelineData, error)
	CategoryDistribution(ctx context.Context, f usecase.Filters) (*usecase.CategoryData, error)
	BankBreakdown(ctx context.Context, f usecase.Filters) (*usecase.BankData, error)
	TopEntries(ctx context.Context, f usecase.Filters) (*usecase.TopEntriesData, error)
	ClearCache(ctx context.Context)
}

// DashboardHandler serves the dashboard query endpoints. Every endpoint
// reads its filters from query parameters and answers with the standard
// envelope.
type DashboardHandler struct {
	uc DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(uc DashboardService) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// parseFilters reads the shared filter parameters from the request.
func parseFilters(r *http.Request) usecase.Filters {
	q := r.URL.Query()
	return usecase.Filters{
		Period:         q.Get("period"),
		DateStart:      q.Get("date_start"),
		DateEnd:        q.Get("date_end"),
		Status:         q.Get("status"),
		Grouping:       q.Get("grouping"),
		Limit:          parseIntQuery(r, "limit", 0),
		Days:           parseIntQuery(r, "days", 0),
		OnlyOverdue:    parseBoolQuery(r, "only_overdue"),
		Kind:           q.Get("kind"),
		PeriodCurrent:  q.Get("period_current"),
		PeriodPrevious: q.Get("period_previous"),
	}
}

// Summary handles GET /dashboard/summary.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	data, err := h.uc.Summary(r.Context(), parseFilters(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build summary", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// CashFlow handles GET /dashboard/cash-flow.
func (h *DashboardHandler) CashFlow(w http.ResponseWriter, r *http.Request) {
	data, err := h.uc.CashFlow(r.Context(), parseFilters(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build cash flow", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// DREByDepartment handles GET /dashboard/dre-department.
func (h *DashboardHandler) DREByDepartment(w http.ResponseWriter, r *http.Request) {
	data, err := h.uc.DREByDepartment(r.Context(), parseFilters(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build department breakdown", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// TopSuppliers handles GET /dashboard/top-suppliers.
func (h *DashboardHandler) TopSuppliers(w http.ResponseWriter, r *http.Request) {
	data, err := h.uc.TopSuppliers(r.Context(), parseFilters(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to rank suppliers", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// DueEntries handles GET /dashboard/due-entries.
func (h *DashboardHandler) DueEntries(w http.ResponseWriter, r *http.Request) {
	data, err := h.uc.DueEntries(r.Context(), parseFilters(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build due report", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// KPIs handles GET /dashboard/kpis.
func (h *DashboardHandler) KPIs(w http.ResponseWriter, r *http.Request) {
	data, err := h.uc.KPIs(r.Context(), parseFilters(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build KPIs", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// ComparePeriods handles GET /dashboard/compare-periods.
func (h *DashboardHandler) ComparePeriods(w http.ResponseWriter, r *http.Request) {
	data, err := h.uc.ComparePeriods(r.Context(), parseFilters(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compare periods", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// CompareMonths handles GET /dashboard/compare-months.
func (h *DashboardHandler) CompareMonths(w http.ResponseWriter, r *http.Request) {
	data, err := h.uc.CompareMonths(r.Context(), parseFilters(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compare months", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// Alerts handles GET /dashboard/alerts.
func (h *DashboardHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	data, err := h.uc.Alerts(r.Context(), parseFilters(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build alerts", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// Timeline handles GET /dashboard/timeline.
func (h *DashboardHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	data, err := h.uc.Timeline(r.Context(), parseFilters(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build timeline", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// CategoryDistribution handles GET /dashboard/categories.
func (h *DashboardHandler) CategoryDistribution(w http.ResponseWriter, r *http.Request) {
	data, err := h.uc.CategoryDistribution(r.Context(), parseFilters(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build category distribution", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// BankBreakdown handles GET /dashboard/banks.
func (h *DashboardHandler) BankBreakdown(w http.ResponseWriter, r *http.Request) {
	data, err := h.uc.BankBreakdown(r.Context(), parseFilters(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build bank breakdown", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// TopEntries handles GET /dashboard/top-entries.
func (h *DashboardHandler) TopEntries(w http.ResponseWriter, r *http.Request) {
	data, err := h.uc.TopEntries(r.Context(), parseFilters(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to rank entries", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// ClearCache handles POST /dashboard/clear-cache.
func (h *DashboardHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.uc.ClearCache(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"message": "cache cleared"})
}
