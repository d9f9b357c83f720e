package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fenix-platform/whatsapp-relay/internal/business"
	"github.com/fenix-platform/whatsapp-relay/internal/middleware"
	"github.com/fenix-platform/whatsapp-relay/internal/model"
	"github.com/fenix-platform/whatsapp-relay/internal/service"
	"github.com/fenix-platform/whatsapp-relay/pkg/logger"
)

// BusinessHandler handles the business API endpoints.
type BusinessHandler struct {
	registry      *business.Registry
	messages      *service.MessageService
	conversations *service.ConversationService
	logger        *logger.Logger
}

// NewBusinessHandler creates a new business handler.
func NewBusinessHandler(
	registry *business.Registry,
	messages *service.MessageService,
	conversations *service.ConversationService,
	log *logger.Logger,
) *BusinessHandler {
	return &BusinessHandler{
		registry:      registry,
		messages:      messages,
		conversations: conversations,
		logger:        log,
	}
}

// Configure handles POST /api/v1/business/configure
func (h *BusinessHandler) Configure(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateCreateBusiness(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	autoReply := true
	if req.AutoReply != nil {
		autoReply = *req.AutoReply
	}

	b := h.registry.Create(model.Business{
		Name:           req.Name,
		Industry:       req.Industry,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		PhoneNumberID:  req.PhoneNumberID,
		WABAID:         req.WABAID,
		Description:    req.Description,
		BusinessHours:  req.BusinessHours,
		AIInstructions: req.AIInstructions,
		AutoReply:      autoReply,
		ResponseDelay:  req.ResponseDelay,
	})

	writeJSON(w, http.StatusCreated, b)
}

// Get handles GET /api/v1/business/configure/{businessId}
func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessId")
	if err := middleware.ValidateBusinessID(businessID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, ok := h.registry.GetByID(businessID)
	if !ok {
		writeError(w, http.StatusNotFound, "business not found")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Update handles PUT /api/v1/business/configure/{businessId}
func (h *BusinessHandler) Update(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessId")
	if err := middleware.ValidateBusinessID(businessID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.UpdateBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, ok := h.registry.Update(businessID, &req)
	if !ok {
		writeError(w, http.StatusNotFound, "business not found")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// List handles GET /api/v1/business/all
func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.All())
}

// SendMessage handles POST /api/v1/business/send-message
func (h *BusinessHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateSendMessage(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.messages.Send(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			writeError(w, http.StatusNotFound, "business not found")
			return
		}
		h.logger.Error("failed to send message", zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to send message")
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// Broadcast handles POST /api/v1/business/broadcast
func (h *BusinessHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req model.BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateBroadcast(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.messages.Broadcast(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			writeError(w, http.StatusNotFound, "business not found")
			return
		}
		h.logger.Error("failed to broadcast", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to broadcast")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Analytics handles GET /api/v1/business/analytics/{businessId}
func (h *BusinessHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessId")
	if err := middleware.ValidateBusinessID(businessID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := h.registry.GetByID(businessID); !ok {
		writeError(w, http.StatusNotFound, "business not found")
		return
	}

	writeJSON(w, http.StatusOK, h.conversations.Analytics(businessID))
}

// Conversations handles GET /api/v1/business/conversations/{businessId}
func (h *BusinessHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessId")
	if err := middleware.ValidateBusinessID(businessID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := h.registry.GetByID(businessID); !ok {
		writeError(w, http.StatusNotFound, "business not found")
		return
	}

	q := model.ConversationQuery{
		Page:        1,
		Limit:       20,
		ClientPhone: r.URL.Query().Get("clientPhone"),
	}
	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			q.Page = parsed
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			q.Limit = parsed
		}
	}

	writeJSON(w, http.StatusOK, h.conversations.List(businessID, q))
}
