// Package whatsapp implements the outbound WhatsApp Cloud API client.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fenix-platform/whatsapp-relay/pkg/logger"
)

// DefaultBaseURL is the Graph API root used unless overridden in config.
const DefaultBaseURL = "https://graph.facebook.com/v22.0"

// ErrNotConfigured is returned when provider credentials are missing.
var ErrNotConfigured = errors.New("whatsapp configuration missing")

// Config holds the provider credentials.
type Config struct {
	AccessToken   string
	VerifyToken   string
	PhoneNumberID string
	BaseURL       string
}

// Client sends messages and read receipts through the Graph API.
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger

	accessToken   string
	verifyToken   string
	phoneNumberID string
	baseURL       string
}

// NewClient creates a Graph API client.
func NewClient(cfg Config, log *logger.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		logger:        log,
		accessToken:   cfg.AccessToken,
		verifyToken:   cfg.VerifyToken,
		phoneNumberID: cfg.PhoneNumberID,
		baseURL:       baseURL,
	}
}

// Configured reports whether send credentials are present.
func (c *Client) Configured() bool {
	return c.accessToken != "" && c.phoneNumberID != ""
}

// VerifyWebhook answers the provider's subscription handshake. It returns the
// challenge to echo back, or an error when the token does not match.
func (c *Client) VerifyWebhook(mode, token, challenge string) (string, error) {
	if mode == "subscribe" && token == c.verifyToken && c.verifyToken != "" {
		return challenge, nil
	}
	return "", errors.New("webhook verification failed")
}

type sendTextPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type markReadPayload struct {
	MessagingProduct string `json:"messaging_product"`
	Status           string `json:"status"`
	MessageID        string `json:"message_id"`
}

// SendText delivers a text message and returns the provider-assigned id.
func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	payload := sendTextPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: body},
	}

	respBody, err := c.post(ctx, payload)
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	var resp sendResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to decode send response: %w", err)
	}
	if len(resp.Messages) == 0 || resp.Messages[0].ID == "" {
		return "", errors.New("send response carried no message id")
	}
	return resp.Messages[0].ID, nil
}

// MarkRead reports an inbound message as read. Callers treat failure as
// non-fatal.
func (c *Client) MarkRead(ctx context.Context, messageID string) error {
	if !c.Configured() {
		return nil
	}

	payload := markReadPayload{
		MessagingProduct: "whatsapp",
		Status:           "read",
		MessageID:        messageID,
	}

	if _, err := c.post(ctx, payload); err != nil {
		return fmt.Errorf("failed to mark message as read: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("graph API returned %d: %s", resp.StatusCode, body)
	}
	return body, nil
}
