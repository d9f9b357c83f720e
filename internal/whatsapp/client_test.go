package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fenix-platform/whatsapp-relay/pkg/logger"
)

func testClient(baseURL string) *Client {
	return NewClient(Config{
		AccessToken:   "test-token",
		VerifyToken:   "verify-me",
		PhoneNumberID: "pn-1",
		BaseURL:       baseURL,
	}, logger.NewNop())
}

func TestSendText(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages":[{"id":"wamid.resp-1"}]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	id, err := c.SendText(context.Background(), "15551234", "hello there")
	if err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if id != "wamid.resp-1" {
		t.Fatalf("id = %s, want wamid.resp-1", id)
	}

	if gotPath != "/pn-1/messages" {
		t.Fatalf("path = %s", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("auth = %s", gotAuth)
	}
	if gotBody["messaging_product"] != "whatsapp" || gotBody["to"] != "15551234" {
		t.Fatalf("request body = %+v", gotBody)
	}
	text, _ := gotBody["text"].(map[string]any)
	if text["body"] != "hello there" {
		t.Fatalf("text body = %+v", gotBody["text"])
	}
}

func TestSendTextServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad token"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).SendText(context.Background(), "15551234", "hi"); err == nil {
		t.Fatal("expected error on 401 response")
	}
}

func TestSendTextMissingMessageID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"messages":[]}`))
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).SendText(context.Background(), "15551234", "hi"); err == nil {
		t.Fatal("expected error when response has no message id")
	}
}

func TestSendTextUnconfigured(t *testing.T) {
	c := NewClient(Config{}, logger.NewNop())
	if _, err := c.SendText(context.Background(), "15551234", "hi"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestMarkRead(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	if err := testClient(srv.URL).MarkRead(context.Background(), "wamid.in-1"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if gotBody["status"] != "read" || gotBody["message_id"] != "wamid.in-1" {
		t.Fatalf("request body = %+v", gotBody)
	}
}

func TestMarkReadUnconfiguredIsNoOp(t *testing.T) {
	c := NewClient(Config{}, logger.NewNop())
	if err := c.MarkRead(context.Background(), "wamid.in-1"); err != nil {
		t.Fatalf("MarkRead without credentials = %v, want nil", err)
	}
}

func TestVerifyWebhook(t *testing.T) {
	c := testClient("http://unused")

	challenge, err := c.VerifyWebhook("subscribe", "verify-me", "12345")
	if err != nil || challenge != "12345" {
		t.Fatalf("verify = %q, %v", challenge, err)
	}

	if _, err := c.VerifyWebhook("subscribe", "wrong", "12345"); err == nil {
		t.Fatal("expected failure for wrong token")
	}
	if _, err := c.VerifyWebhook("unsubscribe", "verify-me", "12345"); err == nil {
		t.Fatal("expected failure for wrong mode")
	}

	empty := NewClient(Config{}, logger.NewNop())
	if _, err := empty.VerifyWebhook("subscribe", "", "12345"); err == nil {
		t.Fatal("expected failure when no verify token is configured")
	}
}
