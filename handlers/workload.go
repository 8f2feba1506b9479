package handlers

import (
	"net/http"
	"time"

	"petgenie/models"
	"petgenie/services/schedule"
	"petgenie/services/workload"
)

// WorkloadHandler serves the workload/burnout metrics.
type WorkloadHandler struct {
	Workload *workload.Service
	Schedule *schedule.Service
	Options  workload.Options
}

// NewWorkloadHandler creates a new WorkloadHandler.
func NewWorkloadHandler(wl *workload.Service, sched *schedule.Service, opts workload.Options) *WorkloadHandler {
	return &WorkloadHandler{Workload: wl, Schedule: sched, Options: opts}
}

// GetDaily returns the metric for one day (default today).
func (h *WorkloadHandler) GetDaily(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDate(r.URL.Query().Get("date"))
	if !ok {
		date = time.Now()
	}
	writeJSON(w, http.StatusOK, h.Workload.DailyMetric(date, h.Schedule.All(), h.Options))
}

// GetRange returns one metric per day in [from, to].
func (h *WorkloadHandler) GetRange(w http.ResponseWriter, r *http.Request) {
	from, okFrom := parseDate(r.URL.Query().Get("from"))
	to, okTo := parseDate(r.URL.Query().Get("to"))
	if !okFrom || !okTo {
		writeError(w, http.StatusBadRequest, "from and to dates are required (YYYY-MM-DD)")
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "from must be on or before to")
		return
	}

	metrics := h.Workload.RangeMetrics(from, to, h.Schedule.All(), h.Options)
	if metrics == nil {
		metrics = []models.WorkloadMetric{}
	}
	writeJSON(w, http.StatusOK, metrics)
}

// GetSummary returns the weekly or monthly summary containing the anchor
// date (default today).
func (h *WorkloadHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	period := models.Period(r.URL.Query().Get("period"))
	switch period {
	case models.PeriodWeekly, models.PeriodMonthly:
	case "":
		period = models.PeriodWeekly
	default:
		writeError(w, http.StatusBadRequest, "period must be weekly or monthly")
		return
	}

	anchor, ok := parseDate(r.URL.Query().Get("date"))
	if !ok {
		anchor = time.Now()
	}
	writeJSON(w, http.StatusOK, h.Workload.PeriodSummary(period, anchor, h.Schedule.All(), h.Options))
}

// GetWarnings returns the cap warnings for one day (default today).
func (h *WorkloadHandler) GetWarnings(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDate(r.URL.Query().Get("date"))
	if !ok {
		date = time.Now()
	}

	warnings := h.Workload.Warnings(date, h.Schedule.All(), h.Options)
	if warnings == nil {
		warnings = []models.WorkloadWarning{}
	}
	writeJSON(w, http.StatusOK, warnings)
}
