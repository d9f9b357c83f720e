package handler

import (
	"net/http"
	"time"

	"github.com/fenix-platform/whatsapp-relay/internal/whatsapp"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	client     *whatsapp.Client
	aiProvider string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(client *whatsapp.Client, aiProvider string) *HealthHandler {
	return &HealthHandler{
		client:     client,
		aiProvider: aiProvider,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":              "ok",
		"service":             "whatsapp-relay",
		"timestamp":           time.Now().UTC().Format(time.RFC3339),
		"whatsapp_configured": h.client.Configured(),
		"ai_provider":         h.aiProvider,
	})
}
