package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/fenix-platform/whatsapp-relay/internal/model"
)

const (
	// StreamName is the name of the message fan-out stream.
	StreamName = "WA_MESSAGES"

	// SubjectPrefix is the prefix for all message subjects.
	SubjectPrefix = "wa"
)

// StreamPublisher fans stored messages out to JetStream so downstream
// consumers (dashboards, audit pipelines) can follow conversations live.
// Publishing is best-effort: the in-memory store remains the source of truth
// for queries.
type StreamPublisher struct {
	client *Client
}

// NewStreamPublisher creates a publisher on an established connection.
func NewStreamPublisher(client *Client) *StreamPublisher {
	return &StreamPublisher{client: client}
}

// EnsureStream ensures the fan-out stream exists.
func (p *StreamPublisher) EnsureStream(ctx context.Context) error {
	js := p.client.JetStream()

	if _, err := js.Stream(ctx, StreamName); err == nil {
		return nil
	}

	_, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "Business messaging relay fan-out",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

// MessageSubject returns the subject a message is published on.
func MessageSubject(businessID, clientPhone string, direction model.Direction) string {
	return fmt.Sprintf("%s.%s.%s.%s", SubjectPrefix, businessID, clientPhone, direction)
}

// PublishMessage publishes a stored message to JetStream.
func (p *StreamPublisher) PublishMessage(ctx context.Context, msg *model.Message) (uint64, error) {
	subject := MessageSubject(msg.BusinessID, msg.ClientPhone, msg.Direction)

	data, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal message: %w", err)
	}

	ack, err := p.client.JetStream().Publish(ctx, subject, data)
	if err != nil {
		return 0, fmt.Errorf("failed to publish message: %w", err)
	}
	return ack.Sequence, nil
}
