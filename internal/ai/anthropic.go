package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/fenix-platform/whatsapp-relay/internal/model"
)

const anthropicModel = "claude-3-5-haiku-20241022"

// AnthropicResponder drafts replies with the Anthropic messages API.
type AnthropicResponder struct {
	client *anthropic.Client
}

// NewAnthropicResponder creates an Anthropic-backed responder.
func NewAnthropicResponder(apiKey string) (*AnthropicResponder, error) {
	if apiKey == "" {
		return nil, errors.New("Anthropic API key is required")
	}
	return &AnthropicResponder{client: anthropic.NewClient(option.WithAPIKey(apiKey))}, nil
}

// Name returns the provider name.
func (r *AnthropicResponder) Name() string {
	return "anthropic"
}

// Generate implements Responder.
func (r *AnthropicResponder) Generate(ctx context.Context, req *Request) (*Reply, error) {
	prompt := buildPrompt(req)

	messages := []anthropic.MessageParam{
		{
			Role: anthropic.F(anthropic.MessageParamRoleUser),
			Content: anthropic.F([]anthropic.ContentBlockParamUnion{
				anthropic.TextBlockParam{
					Type: anthropic.F(anthropic.TextBlockParamTypeText),
					Text: anthropic.F(prompt),
				},
			}),
		},
	}

	resp, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.F(anthropicModel),
		MaxTokens: anthropic.F(int64(500)),
		Messages:  anthropic.F(messages),
	})
	if err != nil {
		return nil, err
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			content += block.Text
		}
	}
	if content == "" {
		return nil, errors.New("no response generated")
	}

	return &Reply{
		Text:          content,
		ShouldRespond: shouldRespond(req),
		Confidence:    0.8,
		Intent:        detectIntent(req.Message),
	}, nil
}

// buildPrompt folds the system instructions and conversation history into a
// single user turn.
func buildPrompt(req *Request) string {
	var sb strings.Builder
	sb.WriteString(buildSystemPrompt(req.Business))
	sb.WriteString("\nConversation so far:\n")
	for _, msg := range req.History {
		speaker := "Client"
		if msg.Direction == model.DirectionOutbound {
			speaker = "Assistant"
		}
		fmt.Fprintf(&sb, "%s: %s\n", speaker, msg.Content)
	}
	if len(req.History) == 0 {
		fmt.Fprintf(&sb, "Client: %s\n", req.Message)
	}
	sb.WriteString("\nWrite the assistant's next reply.")
	return sb.String()
}
