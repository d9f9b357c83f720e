// Package ai generates automated replies to inbound client messages.
package ai

import (
	"context"

	"github.com/fenix-platform/whatsapp-relay/internal/model"
)

// Request carries everything a responder needs to draft a reply.
type Request struct {
	Message     string
	MessageType string
	Business    *model.Business
	History     []model.Message
	ClientPhone string
}

// Reply is a drafted response. ShouldRespond gates whether it is sent;
// Confidence and Intent are advisory metadata and never drive control flow.
type Reply struct {
	Text          string
	ShouldRespond bool
	Confidence    float64
	Intent        string
}

// Responder is the interface for reply providers. Generate may call out to a
// remote model and must be treated as a suspension point by callers.
type Responder interface {
	Generate(ctx context.Context, req *Request) (*Reply, error)
	Name() string
}

// Provider is the type of reply provider.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// NewResponder creates a responder for the given provider. An empty API key
// yields the static fallback responder so the relay keeps answering clients.
func NewResponder(provider Provider, apiKey string) (Responder, error) {
	if apiKey == "" {
		return NewFallbackResponder(), nil
	}
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIResponder(apiKey)
	case ProviderAnthropic:
		return NewAnthropicResponder(apiKey)
	default:
		return NewOpenAIResponder(apiKey)
	}
}
