// Package model defines data structures for the messaging relay.
package model

import (
	"time"
)

// Direction indicates whether a message was received from or sent to a client.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// Status represents the delivery status of a message.
type Status string

const (
	StatusReceived  Status = "received"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
)

// Rank orders statuses along the delivery lifecycle. Transitions only move
// forward: received/sent -> delivered -> read.
func (s Status) Rank() int {
	switch s {
	case StatusReceived, StatusSent:
		return 0
	case StatusDelivered:
		return 1
	case StatusRead:
		return 2
	default:
		return -1
	}
}

// Message is a single message exchanged between a business and a client.
// ID is assigned by the provider and is unique within a business. Direction,
// timestamp and content are immutable after construction; Status is the only
// field that changes, and only forward along the delivery lifecycle.
type Message struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"business_id"`
	ClientPhone string    `json:"client_phone"`
	Direction   Direction `json:"direction"`
	Type        string    `json:"type"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	Status      Status    `json:"status"`
}

// SendMessageRequest is the request to manually send a message to a client.
type SendMessageRequest struct {
	BusinessID string `json:"business_id"`
	To         string `json:"to"`
	Message    string `json:"message"`
	Type       string `json:"type,omitempty"`
}

// BroadcastRequest is the request to send one message to many recipients.
type BroadcastRequest struct {
	BusinessID string   `json:"business_id"`
	Recipients []string `json:"recipients"`
	Message    string   `json:"message"`
	Type       string   `json:"type,omitempty"`
}

// BroadcastDelivery is the per-recipient outcome of a broadcast.
type BroadcastDelivery struct {
	Recipient string `json:"recipient"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BroadcastSummary totals the outcomes of a broadcast.
type BroadcastSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BroadcastResponse reports every recipient's outcome. One recipient failing
// never affects delivery to the others.
type BroadcastResponse struct {
	Successful []BroadcastDelivery `json:"successful"`
	Failed     []BroadcastDelivery `json:"failed"`
	Summary    BroadcastSummary    `json:"summary"`
}
