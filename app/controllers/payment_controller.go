package controllers

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/eurodash/eurodash/app/models"
	"github.com/eurodash/eurodash/app/repository"
	"github.com/eurodash/eurodash/internal/pkg/catalog"
	"github.com/eurodash/eurodash/internal/pkg/database"
	"github.com/eurodash/eurodash/internal/pkg/env"
	"github.com/eurodash/eurodash/internal/pkg/notification"
	"github.com/eurodash/eurodash/internal/pkg/payment"
	"github.com/eurodash/eurodash/internal/pkg/usercontext"
)

type createCheckoutSessionRequest struct {
	ProductID string `json:"product_id" validate:"required,max=100"`
}

func paymentService() *payment.Service {
	factory := repository.GetGlobalFactory()
	return payment.NewService(factory.GetPurchaseRepository(), factory.GetWebhookEventRepository())
}

// HandleListProducts returns the purchasable catalog.
func HandleListProducts(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(catalog.Products())
}

// HandleCreateCheckoutSession creates a Stripe-hosted checkout session for the
// logged-in user and returns the redirect URL. No purchase row is written
// here; confirmation arrives via webhook.
func HandleCreateCheckoutSession(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}

	var req createCheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid request body",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "product_id is required",
		})
	}

	// The session already carries everything Stripe needs to prefill.
	user := &models.User{
		ID:    userCtx.UserID,
		Name:  userCtx.Name,
		Email: userCtx.Email,
	}

	svc := paymentService()
	sess, err := svc.CreateCheckoutSession(c.Context(), user, req.ProductID)
	if err != nil {
		if errors.Is(err, payment.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "product not found",
			})
		}
		log.Printf("checkout session creation failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "checkout_creation_failed",
			"message": "failed to create checkout session",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"checkout_url": sess.CheckoutURL,
		"session_id":   sess.SessionID,
	})
}

// HandleGetPurchaseHistory returns all purchases owned by the caller.
func HandleGetPurchaseHistory(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}

	svc := paymentService()
	purchases, err := svc.GetPurchaseHistory(c.Context(), userCtx.UserID)
	if err != nil {
		log.Printf("purchase history lookup failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "failed to load purchase history",
		})
	}
	if purchases == nil {
		purchases = []models.Purchase{}
	}
	return c.Status(fiber.StatusOK).JSON(purchases)
}

// HandleStripeWebhook is the single entry point for processor callbacks. The
// raw body must reach signature verification unparsed; any upstream JSON
// re-serialization would break it.
func HandleStripeWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("Stripe-Signature"))
	secret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")

	// Signature first, before any database write. Fails closed.
	event, err := payment.VerifyAndParseEvent(rawBody, signature, secret)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_signature"})
	}

	if payment.IsTestEvent(event) {
		log.Print("[Webhook] Test event detected")
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"verified": true})
	}

	svc := paymentService()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	created, stored, err := svc.RecordWebhookEvent(ctx, payment.WebhookEventInput{
		StripeEventID:  event.ID,
		EventType:      string(event.Type),
		PayloadJSON:    string(rawBody),
		SignatureValid: true,
	})
	if err != nil {
		log.Printf("Webhook event persist failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	if !created {
		if payment.EventAlreadyProcessed(stored) {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true, "duplicate": true})
		}
		// The processor redelivers after a 500; the earlier attempt failed or
		// never finished, so reconciliation has to run again.
		log.Printf("[Webhook] Reprocessing event %s after incomplete attempt", event.ID)
	}

	if string(event.Type) != payment.EventTypeCheckoutCompleted {
		// Refunds, disputes and failed payments are acknowledged but do not
		// change purchase state; the audit row is the only trace.
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, nil)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
	}

	completed, err := payment.ExtractCompletedCheckout(event)
	if err != nil {
		log.Printf("Error processing webhook %s: %v", event.ID, err)
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}

	purchase, err := svc.ReconcileCheckoutCompleted(ctx, completed)
	if err != nil {
		log.Printf("Error processing webhook %s: %v", event.ID, err)
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	_ = svc.MarkWebhookProcessed(ctx, stored.ID, nil)
	log.Printf("[Webhook] Payment completed for user %d (purchase %d)", purchase.UserID, purchase.ID)

	// Fire-and-forget relative to the payment state transition.
	notifyPurchaseCompleted(purchase)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
}

func notifyPurchaseCompleted(purchase *models.Purchase) {
	db := database.GetDB()
	if db == nil {
		return
	}
	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(purchase.UserID)
	if err != nil {
		log.Printf("notification skipped, user %d not found: %v", purchase.UserID, err)
		return
	}

	dispatcher := notification.NewDispatcher(db)
	if !dispatcher.SendPaymentConfirmation(user, purchase) {
		log.Printf("payment confirmation notification failed for purchase %d", purchase.ID)
	}
	if !dispatcher.SendPaymentReceipt(user, purchase) {
		log.Printf("payment receipt notification failed for purchase %d", purchase.ID)
	}
	if !dispatcher.SendReportDelivery(user, purchase) {
		log.Printf("report delivery notification failed for purchase %d", purchase.ID)
	}
}
