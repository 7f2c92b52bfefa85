package handlers

import (
	"net/http"
	"time"
)

type HealthHandler struct {
	storageBackend string
	ocrEngines     []string
}

func NewHealthHandler(storageBackend string, ocrEngines []string) *HealthHandler {
	return &HealthHandler{storageBackend: storageBackend, ocrEngines: ocrEngines}
}

// Health reports service liveness plus the configured pipeline backends.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"service":         "prism",
		"storage_backend": h.storageBackend,
		"ocr_engines":     h.ocrEngines,
		"time":            time.Now().UTC().Format(time.RFC3339),
	})
}
