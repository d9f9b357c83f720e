package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fenix-platform/whatsapp-relay/internal/ai"
	"github.com/fenix-platform/whatsapp-relay/internal/model"
	"github.com/fenix-platform/whatsapp-relay/internal/store"
	"github.com/fenix-platform/whatsapp-relay/pkg/logger"
	"github.com/fenix-platform/whatsapp-relay/pkg/metrics"
)

// ContextWindow is the number of recent conversation messages handed to the
// reply generator.
const ContextWindow = 10

// IngestService is the webhook processing pipeline. Each payload fans out
// into change events; failures stay local to the event or message that caused
// them and never abort sibling processing.
type IngestService struct {
	store     store.MessageStore
	registry  Resolver
	responder ai.Responder
	provider  ProviderClient
	publisher EventPublisher
	logger    *logger.Logger
}

// NewIngestService creates a new ingestion pipeline.
func NewIngestService(
	st store.MessageStore,
	registry Resolver,
	responder ai.Responder,
	provider ProviderClient,
	publisher EventPublisher,
	log *logger.Logger,
) *IngestService {
	return &IngestService{
		store:     st,
		registry:  registry,
		responder: responder,
		provider:  provider,
		publisher: publisher,
		logger:    log,
	}
}

// ProcessWebhook walks a provider payload and handles every message and
// status event it carries. Unknown change shapes are skipped silently; an
// unresolvable routing key skips only that event.
func (s *IngestService) ProcessWebhook(ctx context.Context, payload *model.WebhookPayload) {
	if payload == nil {
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}

			for _, st := range change.Value.Statuses {
				s.store.UpdateStatus(st.ID, model.Status(st.Status), model.EventTime(st.Timestamp))
			}
			if len(change.Value.Statuses) > 0 {
				metrics.WebhookEventsTotal.WithLabelValues("statuses", "applied").Inc()
			}

			if len(change.Value.Messages) == 0 {
				continue
			}

			phoneNumberID := change.Value.Metadata.PhoneNumberID
			biz, ok := s.registry.ResolveByPhoneNumberID(phoneNumberID)
			if !ok {
				metrics.WebhookEventsTotal.WithLabelValues("messages", "unresolved").Inc()
				s.logger.Warn("no business configured for phone number id",
					zap.String("phone_number_id", phoneNumberID),
				)
				continue
			}
			metrics.WebhookEventsTotal.WithLabelValues("messages", "resolved").Inc()

			for _, im := range change.Value.Messages {
				s.handleInbound(ctx, biz, im)
			}
		}
	}
}

// handleInbound runs the per-message sequence: record, fetch context,
// generate a reply, send it, and mark the original read. Every failure is
// logged and degrades the sequence instead of escaping it.
func (s *IngestService) handleInbound(ctx context.Context, biz *model.Business, im model.IncomingMessage) {
	log := s.logger.With(
		zap.String("business_id", biz.ID),
		zap.String("message_id", im.ID),
	)
	defer func() {
		if r := recover(); r != nil {
			log.Error("message handling panicked", zap.Any("panic", r))
		}
	}()

	msg := model.Message{
		ID:          im.ID,
		BusinessID:  biz.ID,
		ClientPhone: im.From,
		Direction:   model.DirectionInbound,
		Type:        im.Type,
		Content:     normalizeContent(im),
		Timestamp:   model.EventTime(im.Timestamp),
		Status:      model.StatusReceived,
	}
	recordMessage(ctx, s.store, s.publisher, s.logger, msg)

	history := s.store.RecentContext(biz.ID, im.From, ContextWindow)

	start := time.Now()
	reply, err := s.responder.Generate(ctx, &ai.Request{
		Message:     msg.Content,
		MessageType: im.Type,
		Business:    biz,
		History:     history,
		ClientPhone: im.From,
	})
	if err != nil {
		metrics.RecordReply(s.responder.Name(), "error", time.Since(start).Seconds())
		log.Error("reply generation failed", zap.Error(err))
	} else {
		metrics.RecordReply(s.responder.Name(), "ok", time.Since(start).Seconds())
	}

	if reply != nil && reply.ShouldRespond {
		if id, sendErr := s.provider.SendText(ctx, im.From, reply.Text); sendErr != nil {
			metrics.ProviderSendsTotal.WithLabelValues("error").Inc()
			log.Warn("failed to send automated reply", zap.Error(sendErr))
		} else {
			metrics.ProviderSendsTotal.WithLabelValues("ok").Inc()
			recordMessage(ctx, s.store, s.publisher, s.logger, model.Message{
				ID:          id,
				BusinessID:  biz.ID,
				ClientPhone: im.From,
				Direction:   model.DirectionOutbound,
				Type:        "text",
				Content:     reply.Text,
				Timestamp:   time.Now(),
				Status:      model.StatusSent,
			})
			log.Info("automated reply sent", zap.String("intent", reply.Intent))
		}
	}

	if err := s.provider.MarkRead(ctx, im.ID); err != nil {
		log.Warn("failed to mark message as read", zap.Error(err))
	}
}

// normalizeContent renders any provider message into a display string.
func normalizeContent(im model.IncomingMessage) string {
	switch im.Type {
	case "text":
		if im.Text != nil {
			return im.Text.Body
		}
		return ""
	case "image":
		return fmt.Sprintf("[Image: %s]", mediaCaption(im.Image, "No caption"))
	case "document":
		if im.Document != nil && im.Document.Filename != "" {
			return fmt.Sprintf("[Document: %s]", im.Document.Filename)
		}
		return "[Document: Unknown file]"
	case "audio":
		return "[Audio message]"
	case "video":
		return fmt.Sprintf("[Video: %s]", mediaCaption(im.Video, "No caption"))
	default:
		return fmt.Sprintf("[%s message]", im.Type)
	}
}

func mediaCaption(m *model.MediaBody, fallback string) string {
	if m != nil && m.Caption != "" {
		return m.Caption
	}
	return fallback
}
