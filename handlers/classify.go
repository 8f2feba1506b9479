package handlers

import (
	"encoding/json"
	"net/http"

	"petgenie/models"
	"petgenie/services/classifier"
)

// ClassifyHandler exposes ad-hoc classification of raw entries, mainly for
// the dashboard's "what would this become" preview.
type ClassifyHandler struct {
	Classifier *classifier.Service
}

// NewClassifyHandler creates a new ClassifyHandler.
func NewClassifyHandler(svc *classifier.Service) *ClassifyHandler {
	return &ClassifyHandler{Classifier: svc}
}

// ClassifyRequest carries the raw entries to classify.
type ClassifyRequest struct {
	Entries []models.CalendarEntry `json:"entries"`
}

// ClassifyResponse returns the enriched entries in input order.
type ClassifyResponse struct {
	Entries []models.EnrichedEntry `json:"entries"`
}

// Classify enriches the posted entries.
func (h *ClassifyHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, ClassifyResponse{Entries: h.Classifier.ClassifyAll(req.Entries)})
}
