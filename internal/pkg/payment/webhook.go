package payment

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"
)

// TestEventPrefix marks Stripe events sent by endpoint configuration tests;
// they are acknowledged without side effects.
const TestEventPrefix = "evt_test_"

// EventTypeCheckoutCompleted is the only event type that drives business logic.
const EventTypeCheckoutCompleted = "checkout.session.completed"

// VerifyAndParseEvent checks the Stripe-Signature header against the raw
// request bytes and parses the event. Verification fails closed: any error
// (missing header, bad signature, expired timestamp, malformed payload) is
// reported as ErrSignatureInvalid and the event must not be processed.
func VerifyAndParseEvent(payload []byte, signatureHeader, webhookSecret string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, webhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return event, nil
}

// IsTestEvent reports whether the event id carries the known test prefix.
func IsTestEvent(event stripe.Event) bool {
	return strings.HasPrefix(event.ID, TestEventPrefix)
}

// ExtractCompletedCheckout pulls the reconciliation fields out of a
// checkout.session.completed event payload.
func ExtractCompletedCheckout(event stripe.Event) (CompletedCheckout, error) {
	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return CompletedCheckout{}, fmt.Errorf("%w: invalid checkout session payload: %v", ErrReconciliationFailed, err)
	}

	out := CompletedCheckout{
		EventID:   event.ID,
		SessionID: cs.ID,
		Amount:    cs.AmountTotal,
		Currency:  string(cs.Currency),
	}
	if cs.PaymentIntent != nil {
		out.PaymentIntentID = cs.PaymentIntent.ID
	}
	if cs.Customer != nil {
		out.CustomerID = cs.Customer.ID
	}
	if cs.Metadata != nil {
		out.ProductID = cs.Metadata["product_id"]
		out.CustomerEmail = cs.Metadata["customer_email"]
		out.CustomerName = cs.Metadata["customer_name"]
	}

	userID, err := parseUserReference(cs.ClientReferenceID, cs.Metadata)
	if err != nil {
		return CompletedCheckout{}, err
	}
	out.UserID = userID

	if strings.TrimSpace(out.PaymentIntentID) == "" {
		return CompletedCheckout{}, fmt.Errorf("%w: event %s carries no payment intent id", ErrReconciliationFailed, event.ID)
	}
	return out, nil
}

// parseUserReference resolves the opaque client reference back to a user id,
// falling back to the user_id metadata mirror.
func parseUserReference(clientReferenceID string, metadata map[string]string) (uint, error) {
	ref := strings.TrimSpace(clientReferenceID)
	if ref == "" && metadata != nil {
		ref = strings.TrimSpace(metadata["user_id"])
	}
	if ref == "" {
		return 0, fmt.Errorf("%w: missing client reference id", ErrReconciliationFailed)
	}
	id, err := strconv.ParseUint(ref, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid client reference id %q", ErrReconciliationFailed, ref)
	}
	return uint(id), nil
}
