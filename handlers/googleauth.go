package handlers

import (
	"fmt"
	"net/http"
	"time"

	"petgenie/services/gcal"
)

// GoogleAuthHandler runs the one-time OAuth consent flow for the Google
// Calendar source. Nil Client means Google sync is not configured.
type GoogleAuthHandler struct {
	Client *gcal.Client
}

// NewGoogleAuthHandler creates a new GoogleAuthHandler.
func NewGoogleAuthHandler(client *gcal.Client) *GoogleAuthHandler {
	return &GoogleAuthHandler{Client: client}
}

// GetAuthURL returns the consent URL to open in a browser.
func (h *GoogleAuthHandler) GetAuthURL(w http.ResponseWriter, r *http.Request) {
	if h.Client == nil {
		writeError(w, http.StatusServiceUnavailable, "google calendar is not configured")
		return
	}
	state := fmt.Sprintf("petgenie_%d", time.Now().Unix())
	writeJSON(w, http.StatusOK, map[string]string{
		"authUrl": h.Client.AuthCodeURL(state),
		"state":   state,
	})
}

// Callback exchanges the authorization code and persists the token.
func (h *GoogleAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if h.Client == nil {
		writeError(w, http.StatusServiceUnavailable, "google calendar is not configured")
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "authorization code required")
		return
	}
	if err := h.Client.Exchange(r.Context(), code); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "authorized"})
}
