package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v74"
	checkoutsession "github.com/stripe/stripe-go/v74/checkout/session"
	"gorm.io/gorm"

	"github.com/eurodash/eurodash/app/models"
	"github.com/eurodash/eurodash/app/repository"
	"github.com/eurodash/eurodash/internal/pkg/catalog"
	"github.com/eurodash/eurodash/internal/pkg/env"
)

// checkoutTimeout bounds the outbound call to Stripe.
const checkoutTimeout = 15 * time.Second

// Setup configures the Stripe client key from the environment.
func Setup() {
	stripe.Key = env.GetEnv("STRIPE_SECRET_KEY", "")
}

// Service orchestrates hosted checkout creation and webhook reconciliation.
// Purchase rows are only ever written through this service.
type Service struct {
	purchases repository.PurchaseRepository
	events    repository.WebhookEventRepository
}

// NewService creates a payment service from injected repositories.
func NewService(purchases repository.PurchaseRepository, events repository.WebhookEventRepository) *Service {
	return &Service{purchases: purchases, events: events}
}

// CreateCheckoutSession creates a Stripe-hosted checkout session for the given
// user and catalog product. It deliberately does not create a Purchase row;
// that happens only when the completion webhook is confirmed.
func (s *Service) CreateCheckoutSession(ctx context.Context, user *models.User, productID string) (*CheckoutSession, error) {
	product, ok := catalog.GetProductByID(productID)
	if !ok {
		return nil, ErrProductNotFound
	}

	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	if base == "" {
		base = "http://localhost:" + env.GetEnv("APP_PORT", "3000")
	}

	ctx, cancel := context.WithTimeout(ctx, checkoutTimeout)
	defer cancel()

	userRef := strconv.FormatUint(uint64(user.ID), 10)
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
		Mode:   stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(product.Currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(product.Name),
						Description: stripe.String(product.Description),
					},
					UnitAmount: stripe.Int64(product.PriceInCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		// Stripe substitutes its session id into the placeholder.
		SuccessURL:          stripe.String(base + "/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:           stripe.String(base + "/payment-cancel"),
		ClientReferenceID:   stripe.String(userRef),
		AllowPromotionCodes: stripe.Bool(true),
	}
	if user.Email != "" {
		params.CustomerEmail = stripe.String(user.Email)
	}
	params.AddMetadata("user_id", userRef)
	params.AddMetadata("customer_email", user.Email)
	params.AddMetadata("customer_name", user.Name)
	params.AddMetadata("product_id", product.ID)

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckoutCreationFailed, err)
	}
	if sess == nil || sess.ID == "" {
		return nil, fmt.Errorf("%w: processor returned no session id", ErrCheckoutCreationFailed)
	}

	return &CheckoutSession{CheckoutURL: sess.URL, SessionID: sess.ID}, nil
}

// ReconcileCheckoutCompleted applies a verified checkout.session.completed
// event to the purchase store. It is idempotent by payment intent id: the
// first delivery creates the row directly in completed state, redeliveries
// (or a pre-existing pending row) end in a status transition at most.
func (s *Service) ReconcileCheckoutCompleted(ctx context.Context, in CompletedCheckout) (*models.Purchase, error) {
	_ = ctx
	if strings.TrimSpace(in.PaymentIntentID) == "" {
		return nil, fmt.Errorf("%w: missing payment intent id", ErrReconciliationFailed)
	}
	if in.UserID == 0 {
		return nil, fmt.Errorf("%w: missing user reference", ErrReconciliationFailed)
	}

	now := time.Now()
	existing, err := s.purchases.GetByPaymentIntentID(in.PaymentIntentID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: purchase lookup: %v", ErrReconciliationFailed, err)
		}

		intentID := in.PaymentIntentID
		purchase := &models.Purchase{
			UserID:                in.UserID,
			StripePaymentIntentID: &intentID,
			StripeCustomerID:      in.CustomerID,
			ProductName:           productDisplayName(in.ProductID),
			Amount:                in.Amount,
			Currency:              normalizeCurrency(in.Currency),
			Status:                models.PurchaseStatusCompleted,
			PurchasedAt:           &now,
		}
		created, err := s.purchases.CreateIfNotExists(purchase)
		if err != nil {
			return nil, fmt.Errorf("%w: purchase create: %v", ErrReconciliationFailed, err)
		}
		if created {
			return purchase, nil
		}
		// Lost a concurrent create; purchase now holds the winning row.
		existing = purchase
	}

	if existing.Status != models.PurchaseStatusCompleted {
		if err := s.purchases.UpdateStatus(existing.ID, models.PurchaseStatusCompleted, &now); err != nil {
			return nil, fmt.Errorf("%w: purchase update: %v", ErrReconciliationFailed, err)
		}
		existing.Status = models.PurchaseStatusCompleted
		existing.PurchasedAt = &now
	}
	return existing, nil
}

// GetPurchaseHistory returns all purchases owned by the given user.
func (s *Service) GetPurchaseHistory(ctx context.Context, userID uint) ([]models.Purchase, error) {
	_ = ctx
	return s.purchases.GetByUserID(userID)
}

// RecordWebhookEvent persists a verified webhook delivery idempotently by
// Stripe event id. The bool reports whether this delivery was the first.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.PaymentWebhookEvent, error) {
	_ = ctx
	eventID := strings.TrimSpace(in.StripeEventID)
	if eventID == "" {
		return false, nil, fmt.Errorf("%w: missing event id", ErrReconciliationFailed)
	}

	event := &models.PaymentWebhookEvent{
		StripeEventID:  eventID,
		EventType:      strings.TrimSpace(in.EventType),
		PayloadJSON:    in.PayloadJSON,
		SignatureValid: in.SignatureValid,
	}
	return s.events.CreateIfNotExists(event)
}

// EventAlreadyProcessed reports whether a stored webhook event finished a
// prior processing attempt without error. Redeliveries of events whose earlier
// attempt failed, or never reached the processed marker, must run
// reconciliation again rather than be acknowledged as duplicates.
func EventAlreadyProcessed(event *models.PaymentWebhookEvent) bool {
	return event != nil && event.ProcessedAt != nil && event.ProcessingError == ""
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.events.MarkProcessed(webhookEventID, errMsg)
}

// productDisplayName resolves the metadata product id to its catalog display
// name, keeping the raw id as snapshot when the catalog no longer knows it.
func productDisplayName(productID string) string {
	if p, ok := catalog.GetProductByID(productID); ok {
		return p.Name
	}
	if strings.TrimSpace(productID) != "" {
		return productID
	}
	return "Premium Analysis Report"
}

func normalizeCurrency(currency string) string {
	c := strings.ToUpper(strings.TrimSpace(currency))
	if c == "" {
		return "USD"
	}
	return c
}
