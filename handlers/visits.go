package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"petgenie/internal/database"
	"petgenie/models"
	"petgenie/services/schedule"
	"petgenie/services/visits"
)

// VisitsHandler previews multi-visit bookings and manages the visit
// template catalogue.
type VisitsHandler struct {
	Visits    *visits.Service
	Templates *database.TemplateRepository
	Schedule  *schedule.Service
}

// NewVisitsHandler creates a new VisitsHandler.
func NewVisitsHandler(v *visits.Service, templates *database.TemplateRepository, sched *schedule.Service) *VisitsHandler {
	return &VisitsHandler{Visits: v, Templates: templates, Schedule: sched}
}

// PreviewResponse carries everything the dashboard needs to confirm or fix
// a booking: all violations at once, the would-be entries, and any clashes
// with the existing schedule.
type PreviewResponse struct {
	Violations []string               `json:"violations"`
	Entries    []models.CalendarEntry `json:"entries"`
	Conflicts  []models.Conflict      `json:"conflicts"`
}

// Preview validates a recurrence config, expands it, and checks the result
// against the current schedule.
func (h *VisitsHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var config models.RecurrenceConfig
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	templates, err := h.Templates.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load templates: "+err.Error())
		return
	}

	resp := PreviewResponse{
		Violations: h.Visits.Validate(config, templates),
		Entries:    []models.CalendarEntry{},
		Conflicts:  []models.Conflict{},
	}
	if resp.Violations == nil {
		resp.Violations = []string{}
	}

	generated := h.Visits.Generate(config, templates)
	if generated != nil {
		resp.Entries = generated
	}

	existing := make([]models.CalendarEntry, 0)
	for _, e := range h.Schedule.All() {
		existing = append(existing, e.CalendarEntry)
	}
	if conflicts := h.Visits.DetectConflicts(existing, generated); conflicts != nil {
		resp.Conflicts = conflicts
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListTemplates returns the template catalogue.
func (h *VisitsHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Templates.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if templates == nil {
		templates = []models.VisitTemplate{}
	}
	writeJSON(w, http.StatusOK, templates)
}

// CreateTemplate adds a template to the catalogue.
func (h *VisitsHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl models.VisitTemplate
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if tpl.Name == "" {
		writeError(w, http.StatusBadRequest, "template name is required")
		return
	}
	if tpl.DurationMinutes < 0 {
		writeError(w, http.StatusBadRequest, "duration must not be negative")
		return
	}

	if err := h.Templates.Create(&tpl); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, tpl)
}

// DeleteTemplate removes a template.
func (h *VisitsHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	err := h.Templates.Delete(id)
	if errors.Is(err, database.ErrTemplateNotFound) {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
