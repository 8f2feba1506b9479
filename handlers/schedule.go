package handlers

import (
	"net/http"
	"strings"
	"time"

	"petgenie/models"
	"petgenie/services/schedule"
)

const dateLayout = "2006-01-02"

// ScheduleHandler serves the cached classified schedule.
type ScheduleHandler struct {
	Service *schedule.Service
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(service *schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{Service: service}
}

// ScheduleResponse is the API response for the schedule endpoint.
type ScheduleResponse struct {
	Entries []models.EnrichedEntry `json:"entries"`
	Total   int                    `json:"total"`
}

// GetSchedule returns classified entries, optionally limited to a date
// window, one source, or work entries only.
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	var entries []models.EnrichedEntry
	if sourceID := strings.TrimSpace(r.URL.Query().Get("source")); sourceID != "" {
		entries = h.Service.Get(sourceID)
	} else {
		entries = h.Service.All()
	}

	from, fromOK := parseDate(r.URL.Query().Get("from"))
	to, toOK := parseDate(r.URL.Query().Get("to"))
	workOnly := r.URL.Query().Get("workOnly") == "true"

	filtered := make([]models.EnrichedEntry, 0, len(entries))
	for _, e := range entries {
		if workOnly && !e.IsWork {
			continue
		}
		if fromOK && e.End.Before(from) {
			continue
		}
		if toOK && e.Start.After(to.AddDate(0, 0, 1)) {
			continue
		}
		filtered = append(filtered, e)
	}

	writeJSON(w, http.StatusOK, ScheduleResponse{Entries: filtered, Total: len(filtered)})
}

// RefreshSchedule triggers an immediate background refresh.
func (h *ScheduleHandler) RefreshSchedule(w http.ResponseWriter, r *http.Request) {
	h.Service.Refresh()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh scheduled"})
}

// GetStatus reports the background worker state.
func (h *ScheduleHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.GetStatus())
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
