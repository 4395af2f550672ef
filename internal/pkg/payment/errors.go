package payment

import "errors"

var (
	// ErrProductNotFound signals an unknown catalog product id.
	ErrProductNotFound = errors.New("product not found")
	// ErrCheckoutCreationFailed signals that the Stripe call failed or
	// returned an incomplete session.
	ErrCheckoutCreationFailed = errors.New("checkout session creation failed")
	// ErrSignatureInvalid signals a webhook whose signature did not verify.
	ErrSignatureInvalid = errors.New("webhook signature verification failed")
	// ErrReconciliationFailed signals a transient storage/processing error
	// while applying a verified webhook event; the processor retries these.
	ErrReconciliationFailed = errors.New("webhook reconciliation failed")
)
