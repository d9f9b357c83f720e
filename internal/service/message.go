package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fenix-platform/whatsapp-relay/internal/model"
	"github.com/fenix-platform/whatsapp-relay/internal/store"
	"github.com/fenix-platform/whatsapp-relay/pkg/logger"
	"github.com/fenix-platform/whatsapp-relay/pkg/metrics"
)

// MessageService handles operator-initiated sends and broadcasts.
type MessageService struct {
	store     store.MessageStore
	registry  Resolver
	provider  ProviderClient
	publisher EventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewMessageService creates a new message service.
func NewMessageService(
	st store.MessageStore,
	registry Resolver,
	provider ProviderClient,
	publisher EventPublisher,
	log *logger.Logger,
) *MessageService {
	return &MessageService{
		store:     st,
		registry:  registry,
		provider:  provider,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

// Send delivers a manual message to one client and records it in history.
func (s *MessageService) Send(ctx context.Context, req *model.SendMessageRequest) (*model.Message, error) {
	if _, ok := s.registry.GetByID(req.BusinessID); !ok {
		return nil, ErrBusinessNotFound
	}

	id, err := s.provider.SendText(ctx, req.To, req.Message)
	if err != nil {
		metrics.ProviderSendsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	metrics.ProviderSendsTotal.WithLabelValues("ok").Inc()

	msgType := req.Type
	if msgType == "" {
		msgType = "text"
	}

	msg := model.Message{
		ID:          id,
		BusinessID:  req.BusinessID,
		ClientPhone: req.To,
		Direction:   model.DirectionOutbound,
		Type:        msgType,
		Content:     req.Message,
		Timestamp:   s.now(),
		Status:      model.StatusSent,
	}
	recordMessage(ctx, s.store, s.publisher, s.logger, msg)

	s.logger.Info("manual message sent",
		zap.String("business_id", req.BusinessID),
		zap.String("to", req.To),
	)
	return &msg, nil
}

// Broadcast sends one message to many recipients, collecting a per-recipient
// outcome. A failed recipient never aborts the rest of the loop.
func (s *MessageService) Broadcast(ctx context.Context, req *model.BroadcastRequest) (*model.BroadcastResponse, error) {
	if _, ok := s.registry.GetByID(req.BusinessID); !ok {
		return nil, ErrBusinessNotFound
	}

	msgType := req.Type
	if msgType == "" {
		msgType = "text"
	}

	resp := &model.BroadcastResponse{
		Successful: []model.BroadcastDelivery{},
		Failed:     []model.BroadcastDelivery{},
	}

	for _, recipient := range req.Recipients {
		id, err := s.provider.SendText(ctx, recipient, req.Message)
		if err != nil {
			metrics.BroadcastRecipientsTotal.WithLabelValues("error").Inc()
			s.logger.Warn("broadcast delivery failed",
				zap.String("business_id", req.BusinessID),
				zap.String("recipient", recipient),
				zap.Error(err),
			)
			resp.Failed = append(resp.Failed, model.BroadcastDelivery{
				Recipient: recipient,
				Error:     err.Error(),
			})
			continue
		}
		metrics.BroadcastRecipientsTotal.WithLabelValues("ok").Inc()

		resp.Successful = append(resp.Successful, model.BroadcastDelivery{
			Recipient: recipient,
			MessageID: id,
		})
		recordMessage(ctx, s.store, s.publisher, s.logger, model.Message{
			ID:          id,
			BusinessID:  req.BusinessID,
			ClientPhone: recipient,
			Direction:   model.DirectionOutbound,
			Type:        msgType,
			Content:     req.Message,
			Timestamp:   s.now(),
			Status:      model.StatusSent,
		})
	}

	resp.Summary = model.BroadcastSummary{
		Total:      len(req.Recipients),
		Successful: len(resp.Successful),
		Failed:     len(resp.Failed),
	}

	s.logger.Info("broadcast completed",
		zap.String("business_id", req.BusinessID),
		zap.Int("total", resp.Summary.Total),
		zap.Int("failed", resp.Summary.Failed),
	)
	return resp, nil
}
