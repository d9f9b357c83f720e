package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecodeWebhookPayload(t *testing.T) {
	body := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "102290129340398",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"metadata": {
						"display_phone_number": "15550001111",
						"phone_number_id": "106540352242922"
					},
					"messages": [{
						"id": "wamid.HBgLMTU1NTEyMzQ=",
						"from": "15551234567",
						"timestamp": "1717420800",
						"type": "text",
						"text": {"body": "do you have openings tomorrow?"}
					}],
					"statuses": [{
						"id": "wamid.outbound-1",
						"status": "delivered",
						"timestamp": "1717420700",
						"recipient_id": "15551234567"
					}]
				}
			}]
		}]
	}`

	var payload WebhookPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(payload.Entry) != 1 || len(payload.Entry[0].Changes) != 1 {
		t.Fatalf("unexpected payload shape: %+v", payload)
	}
	change := payload.Entry[0].Changes[0]
	if change.Field != "messages" {
		t.Fatalf("field = %s", change.Field)
	}
	if change.Value.Metadata.PhoneNumberID != "106540352242922" {
		t.Fatalf("phone number id = %s", change.Value.Metadata.PhoneNumberID)
	}

	if len(change.Value.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(change.Value.Messages))
	}
	msg := change.Value.Messages[0]
	if msg.From != "15551234567" || msg.Type != "text" || msg.Text == nil || msg.Text.Body != "do you have openings tomorrow?" {
		t.Fatalf("message = %+v", msg)
	}

	if len(change.Value.Statuses) != 1 {
		t.Fatalf("statuses = %d, want 1", len(change.Value.Statuses))
	}
	st := change.Value.Statuses[0]
	if st.ID != "wamid.outbound-1" || st.Status != "delivered" {
		t.Fatalf("status = %+v", st)
	}
}

func TestEventTime(t *testing.T) {
	got := EventTime("1717420800")
	if !got.Equal(time.Unix(1717420800, 0)) {
		t.Fatalf("EventTime = %v", got)
	}

	// Malformed or missing timestamps fall back to roughly now.
	for _, in := range []string{"", "not-a-number", "-5", "0"} {
		got := EventTime(in)
		if d := time.Since(got); d < 0 || d > time.Minute {
			t.Fatalf("EventTime(%q) = %v, want near now", in, got)
		}
	}
}
