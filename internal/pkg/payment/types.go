package payment

// CheckoutSession is the caller-facing result of a hosted checkout creation.
type CheckoutSession struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

// CompletedCheckout is the normalized shape extracted from a
// checkout.session.completed webhook event.
type CompletedCheckout struct {
	EventID         string
	SessionID       string
	PaymentIntentID string
	CustomerID      string
	UserID          uint
	ProductID       string
	CustomerEmail   string
	CustomerName    string
	Amount          int64 // minor currency units, as reported by the processor
	Currency        string
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	StripeEventID  string
	EventType      string
	PayloadJSON    string
	SignatureValid bool
}
