package ai

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"

	"github.com/fenix-platform/whatsapp-relay/internal/model"
)

const openAIModel = "gpt-4o-mini"

// OpenAIResponder drafts replies with the OpenAI chat completion API.
type OpenAIResponder struct {
	client *openai.Client
}

// NewOpenAIResponder creates an OpenAI-backed responder.
func NewOpenAIResponder(apiKey string) (*OpenAIResponder, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	return &OpenAIResponder{client: openai.NewClient(apiKey)}, nil
}

// Name returns the provider name.
func (r *OpenAIResponder) Name() string {
	return "openai"
}

// Generate implements Responder.
func (r *OpenAIResponder) Generate(ctx context.Context, req *Request) (*Reply, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(req.Business)},
	}

	// The conversation history already ends with the current inbound
	// message; it was stored before the context fetch.
	for _, msg := range req.History {
		role := openai.ChatMessageRoleUser
		if msg.Direction == model.DirectionOutbound {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}
	if len(req.History) == 0 {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: req.Message,
		})
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       openAIModel,
		Messages:    messages,
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, errors.New("no response generated")
	}

	return &Reply{
		Text:          resp.Choices[0].Message.Content,
		ShouldRespond: shouldRespond(req),
		Confidence:    0.8,
		Intent:        detectIntent(req.Message),
	}, nil
}
