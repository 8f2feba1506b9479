package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"petgenie/internal/database"
	"petgenie/models"
	"petgenie/services/matcher"
)

// ClientsHandler manages the client roster and the matching endpoints.
type ClientsHandler struct {
	Clients *database.ClientRepository
	Matcher *matcher.Service
}

// NewClientsHandler creates a new ClientsHandler.
func NewClientsHandler(clients *database.ClientRepository, m *matcher.Service) *ClientsHandler {
	return &ClientsHandler{Clients: clients, Matcher: m}
}

// ListClients returns the roster.
func (h *ClientsHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Clients.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}
	writeJSON(w, http.StatusOK, clients)
}

// GetClient returns one client.
func (h *ClientsHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.Clients.Get(mux.Vars(r)["id"])
	if errors.Is(err, database.ErrClientNotFound) {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// CreateClient adds a client to the roster.
func (h *ClientsHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(client.Name) == "" {
		writeError(w, http.StatusBadRequest, "client name is required")
		return
	}

	if err := h.Clients.Create(&client); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

// UpdateClient rewrites a client record.
func (h *ClientsHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	client.ID = mux.Vars(r)["id"]

	err := h.Clients.Update(&client)
	if errors.Is(err, database.ErrClientNotFound) {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// DeleteClient removes a client; their label mappings go with them.
func (h *ClientsHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Matcher.RemoveMappingsForClient(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	err := h.Clients.Delete(id)
	if errors.Is(err, database.ErrClientNotFound) {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Suggest ranks client candidates for an entry title (and optional
// extracted label).
func (h *ClientsHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	label := strings.TrimSpace(r.URL.Query().Get("label"))

	clients, err := h.Clients.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	suggestions, err := h.Matcher.Suggest(title, label, clients)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if suggestions == nil {
		suggestions = []models.ClientSuggestion{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}

// MappingRequest binds a label to a client.
type MappingRequest struct {
	Label    string `json:"label"`
	ClientID string `json:"clientId"`
}

// SetMapping persists a label-to-client binding.
func (h *ClientsHandler) SetMapping(w http.ResponseWriter, r *http.Request) {
	var req MappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ClientID == "" {
		writeError(w, http.StatusBadRequest, "clientId is required")
		return
	}

	if _, err := h.Clients.Get(req.ClientID); errors.Is(err, database.ErrClientNotFound) {
		writeError(w, http.StatusNotFound, "client not found")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.Matcher.SetMapping(req.Label, req.ClientID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "mapped"})
}

// RemoveMapping forgets a label binding.
func (h *ClientsHandler) RemoveMapping(w http.ResponseWriter, r *http.Request) {
	label := strings.TrimSpace(r.URL.Query().Get("label"))
	if label == "" {
		writeError(w, http.StatusBadRequest, "label is required")
		return
	}
	if err := h.Matcher.RemoveMapping(label); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
