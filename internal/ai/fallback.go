package ai

import (
	"context"
	"fmt"
)

// FallbackResponder answers with a canned acknowledgement when no AI provider
// is configured, so clients are never left without a reply.
type FallbackResponder struct{}

// NewFallbackResponder creates the static responder.
func NewFallbackResponder() *FallbackResponder {
	return &FallbackResponder{}
}

// Name returns the provider name.
func (r *FallbackResponder) Name() string {
	return "fallback"
}

// Generate implements Responder.
func (r *FallbackResponder) Generate(ctx context.Context, req *Request) (*Reply, error) {
	text := "Thank you for your message! We'll get back to you soon."
	if req.Business != nil && req.Business.Name != "" {
		text = fmt.Sprintf("Hello! Thank you for contacting %s. We'll assist you shortly.", req.Business.Name)
	}

	return &Reply{
		Text:          text,
		ShouldRespond: shouldRespond(req),
		Confidence:    0.5,
		Intent:        detectIntent(req.Message),
	}, nil
}
