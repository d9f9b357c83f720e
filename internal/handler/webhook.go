// Package handler provides HTTP handlers for the relay server.
package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/fenix-platform/whatsapp-relay/internal/model"
	"github.com/fenix-platform/whatsapp-relay/internal/service"
	"github.com/fenix-platform/whatsapp-relay/internal/whatsapp"
	"github.com/fenix-platform/whatsapp-relay/pkg/logger"
)

// WebhookHandler handles the provider webhook endpoints.
type WebhookHandler struct {
	ingest *service.IngestService
	client *whatsapp.Client
	logger *logger.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(ingest *service.IngestService, client *whatsapp.Client, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		ingest: ingest,
		client: client,
		logger: log,
	}
}

// Verify handles GET /webhook, the provider's subscription handshake.
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	challenge, err := h.client.VerifyWebhook(
		q.Get("hub.mode"),
		q.Get("hub.verify_token"),
		q.Get("hub.challenge"),
	)
	if err != nil {
		h.logger.Warn("webhook verification failed")
		writeError(w, http.StatusForbidden, "webhook verification failed")
		return
	}

	h.logger.Info("webhook verified")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(challenge))
}

// Receive handles POST /webhook. The provider retries non-2xx deliveries, so
// malformed payloads are acknowledged and dropped rather than rejected.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var payload model.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Warn("ignoring malformed webhook payload", zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	h.ingest.ProcessWebhook(r.Context(), &payload)

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
