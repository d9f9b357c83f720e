// Package service implements the relay's ingestion pipeline and query surface.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fenix-platform/whatsapp-relay/internal/model"
	"github.com/fenix-platform/whatsapp-relay/internal/store"
	"github.com/fenix-platform/whatsapp-relay/pkg/logger"
	"github.com/fenix-platform/whatsapp-relay/pkg/metrics"
)

// ErrBusinessNotFound is returned when a request names an unknown business.
var ErrBusinessNotFound = errors.New("business not found")

// Resolver maps business identifiers to configuration. The phone-number-id
// lookup is the webhook routing table.
type Resolver interface {
	GetByID(id string) (*model.Business, bool)
	ResolveByPhoneNumberID(phoneNumberID string) (*model.Business, bool)
}

// ProviderClient is the outbound messaging provider. Both calls hit the
// network and are treated as suspension points; no store lock is ever held
// across them.
type ProviderClient interface {
	SendText(ctx context.Context, to, body string) (string, error)
	MarkRead(ctx context.Context, messageID string) error
}

// EventPublisher fans stored messages out to downstream consumers. A nil
// publisher disables fan-out.
type EventPublisher interface {
	PublishMessage(ctx context.Context, msg *model.Message) (uint64, error)
}

// recordMessage appends a message to history, counts it, and fans it out.
// Publish failures are logged only; the store remains the source of truth.
func recordMessage(ctx context.Context, st store.MessageStore, pub EventPublisher, log *logger.Logger, msg model.Message) {
	st.Append(msg)
	metrics.MessagesTotal.WithLabelValues(msg.BusinessID, string(msg.Direction)).Inc()

	if pub != nil {
		if _, err := pub.PublishMessage(ctx, &msg); err != nil {
			log.Warn("failed to publish message event",
				zap.Error(err),
				zap.String("message_id", msg.ID),
			)
		}
	}
}
