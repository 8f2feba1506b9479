package handlers

import (
	"net/http"
	"os"
	"strings"
	"sync"
)

// Version is read from version.txt once and cached.
var (
	version     string
	versionOnce sync.Once
)

type VersionHandler struct{}

type VersionResponse struct {
	Version string `json:"version"`
}

func NewVersionHandler() *VersionHandler {
	return &VersionHandler{}
}

// BackendVersion reads the version from version.txt (cached after first read).
func BackendVersion() string {
	versionOnce.Do(func() {
		paths := []string{
			"version.txt",
			"/app/version.txt", // container path
		}
		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err == nil {
				version = strings.TrimSpace(string(data))
				return
			}
		}
		version = "unknown"
	})
	return version
}

func (h *VersionHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: BackendVersion()})
}
