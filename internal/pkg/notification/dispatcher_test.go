package notification

import (
	"strings"
	"testing"
	"time"

	"github.com/eurodash/eurodash/app/models"
)

func testPurchase() *models.Purchase {
	intent := "pi_abc"
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.Purchase{
		ID:                    1,
		UserID:                7,
		StripePaymentIntentID: &intent,
		ProductName:           "Premium Analysis Report",
		Amount:                2999,
		Currency:              "USD",
		Status:                models.PurchaseStatusCompleted,
		PurchasedAt:           &now,
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   int64
		currency string
		want     string
	}{
		{amount: 2999, currency: "USD", want: "USD 29.99"},
		{amount: 100, currency: "eur", want: "EUR 1.00"},
		{amount: 0, currency: "USD", want: "USD 0.00"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.amount, tt.currency); got != tt.want {
			t.Fatalf("FormatAmount(%d, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
		}
	}
}

func TestConfirmationBody(t *testing.T) {
	body := confirmationBody("Jane", testPurchase())
	for _, want := range []string{"Dear Jane", "Premium Analysis Report", "USD 29.99", "completed"} {
		if !strings.Contains(body, want) {
			t.Fatalf("confirmation body missing %q:\n%s", want, body)
		}
	}
}

func TestReceiptBody(t *testing.T) {
	body := receiptBody("Jane", testPurchase())
	for _, want := range []string{"pi_abc", "USD 29.99", "2025-03-01T10:00:00Z"} {
		if !strings.Contains(body, want) {
			t.Fatalf("receipt body missing %q:\n%s", want, body)
		}
	}
}

func TestDeliveryBody(t *testing.T) {
	body := deliveryBody("", "https://example.com/report/download?token=abc")
	if !strings.Contains(body, "Dear Customer") {
		t.Fatalf("expected fallback salutation:\n%s", body)
	}
	if !strings.Contains(body, "token=abc") {
		t.Fatalf("expected report link in body:\n%s", body)
	}
}

func TestDeliverSkipsUsersWithoutEmail(t *testing.T) {
	d := NewDispatcher(nil)
	if ok := d.SendPaymentConfirmation(&models.User{ID: 7}, testPurchase()); ok {
		t.Fatalf("expected send to report failure without an email address")
	}
}
