package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v74"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header the way Stripe signs
// deliveries: HMAC-SHA256 over "<timestamp>.<payload>".
func signPayload(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func completedEventPayload(eventID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"object": "event",
		"api_version": %q,
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_1",
				"object": "checkout.session",
				"payment_intent": "pi_abc",
				"customer": "cus_123",
				"client_reference_id": "7",
				"amount_total": 2999,
				"currency": "usd",
				"metadata": {
					"user_id": "7",
					"product_id": "premium_analysis_report",
					"customer_email": "jane@example.com",
					"customer_name": "Jane"
				}
			}
		}
	}`, eventID, stripe.APIVersion))
}

func TestVerifyAndParseEvent(t *testing.T) {
	payload := completedEventPayload("evt_1")

	event, err := VerifyAndParseEvent(payload, signPayload(payload, testWebhookSecret, time.Now()), testWebhookSecret)
	if err != nil {
		t.Fatalf("expected valid signature to verify: %v", err)
	}
	if event.ID != "evt_1" || string(event.Type) != EventTypeCheckoutCompleted {
		t.Fatalf("unexpected event: id=%q type=%q", event.ID, event.Type)
	}
}

func TestVerifyAndParseEvent_InvalidSignature(t *testing.T) {
	payload := completedEventPayload("evt_1")

	tests := []struct {
		name   string
		header string
	}{
		{name: "empty header", header: ""},
		{name: "garbage header", header: "t=123,v1=deadbeef"},
		{name: "wrong secret", header: signPayload(payload, "whsec_other", time.Now())},
		{name: "stale timestamp", header: signPayload(payload, testWebhookSecret, time.Now().Add(-time.Hour))},
	}

	for _, tt := range tests {
		if _, err := VerifyAndParseEvent(payload, tt.header, testWebhookSecret); !errors.Is(err, ErrSignatureInvalid) {
			t.Fatalf("%s: expected ErrSignatureInvalid, got %v", tt.name, err)
		}
	}
}

func TestIsTestEvent(t *testing.T) {
	if !IsTestEvent(stripe.Event{ID: "evt_test_abc"}) {
		t.Fatalf("expected evt_test_ prefix to be detected")
	}
	if IsTestEvent(stripe.Event{ID: "evt_1"}) {
		t.Fatalf("expected live event id to pass through")
	}
}

func TestExtractCompletedCheckout(t *testing.T) {
	payload := completedEventPayload("evt_1")
	event, err := VerifyAndParseEvent(payload, signPayload(payload, testWebhookSecret, time.Now()), testWebhookSecret)
	if err != nil {
		t.Fatalf("unexpected verify error: %v", err)
	}

	out, err := ExtractCompletedCheckout(event)
	if err != nil {
		t.Fatalf("unexpected extract error: %v", err)
	}
	if out.PaymentIntentID != "pi_abc" || out.CustomerID != "cus_123" {
		t.Fatalf("unexpected ids: intent=%q customer=%q", out.PaymentIntentID, out.CustomerID)
	}
	if out.UserID != 7 {
		t.Fatalf("expected user 7 from client reference, got %d", out.UserID)
	}
	if out.Amount != 2999 || out.Currency != "usd" {
		t.Fatalf("unexpected amount: %d %s", out.Amount, out.Currency)
	}
	if out.ProductID != "premium_analysis_report" {
		t.Fatalf("unexpected product id %q", out.ProductID)
	}
}

func TestExtractCompletedCheckout_MissingPaymentIntent(t *testing.T) {
	event := stripe.Event{
		ID:   "evt_2",
		Type: EventTypeCheckoutCompleted,
		Data: &stripe.EventData{
			Raw: []byte(`{"id":"cs_2","client_reference_id":"7","amount_total":2999,"currency":"usd"}`),
		},
	}
	if _, err := ExtractCompletedCheckout(event); !errors.Is(err, ErrReconciliationFailed) {
		t.Fatalf("expected ErrReconciliationFailed, got %v", err)
	}
}

func TestParseUserReference(t *testing.T) {
	tests := []struct {
		ref      string
		metadata map[string]string
		want     uint
		wantErr  bool
	}{
		{ref: "7", want: 7},
		{ref: "", metadata: map[string]string{"user_id": "42"}, want: 42},
		{ref: "", wantErr: true},
		{ref: "abc", wantErr: true},
		{ref: "0", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseUserReference(tt.ref, tt.metadata)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("parseUserReference(%q) expected error", tt.ref)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("parseUserReference(%q) = %d, %v; want %d", tt.ref, got, err, tt.want)
		}
	}
}
