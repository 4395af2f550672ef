package controllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v74"

	"github.com/eurodash/eurodash/app/repository"
	"github.com/eurodash/eurodash/internal/pkg/env"
	"github.com/eurodash/eurodash/internal/pkg/usercontext"
)

const testWebhookSecret = "whsec_controller_test"

func signPayload(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func newWebhookTestApp() *fiber.App {
	env.Env = map[string]string{"STRIPE_WEBHOOK_SECRET": testWebhookSecret}
	app := fiber.New()
	app.Post("/api/payment/webhook", HandleStripeWebhook)
	return app
}

func TestHandleStripeWebhook_InvalidSignature(t *testing.T) {
	app := newWebhookTestApp()

	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed"}`)
	req := httptest.NewRequest("POST", "/api/payment/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", "t=123,v1=deadbeef")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleStripeWebhook_MissingSignature(t *testing.T) {
	app := newWebhookTestApp()

	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed"}`)
	req := httptest.NewRequest("POST", "/api/payment/webhook", bytes.NewReader(payload))

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleStripeWebhook_TestEventShortCircuit(t *testing.T) {
	app := newWebhookTestApp()

	payload := []byte(fmt.Sprintf(
		`{"id":"evt_test_ping","object":"event","api_version":%q,"type":"checkout.session.completed","data":{"object":{}}}`,
		stripe.APIVersion,
	))
	req := httptest.NewRequest("POST", "/api/payment/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signPayload(payload, testWebhookSecret, time.Now()))

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	assert.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, true, out["verified"])
}

func TestHandleCreateCheckoutSession_Unauthenticated(t *testing.T) {
	app := fiber.New()
	app.Post("/api/payment/checkout-session", HandleCreateCheckoutSession)

	req := httptest.NewRequest("POST", "/api/payment/checkout-session",
		bytes.NewReader([]byte(`{"product_id":"premium_analysis_report"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHandleCreateCheckoutSession_UnknownProduct(t *testing.T) {
	// The handler builds its service from the global factory; the catalog
	// lookup rejects the product before any repository is touched.
	repository.InitializeFactory(nil)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("USER_CONTEXT", usercontext.UserContext{
			UserID:     7,
			Name:       "Jane",
			Email:      "jane@example.com",
			IsLoggedIn: true,
		})
		return c.Next()
	})
	app.Post("/api/payment/checkout-session", HandleCreateCheckoutSession)

	req := httptest.NewRequest("POST", "/api/payment/checkout-session",
		bytes.NewReader([]byte(`{"product_id":"no_such_product"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleCreateCheckoutSession_MissingProductID(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("USER_CONTEXT", usercontext.UserContext{UserID: 7, IsLoggedIn: true})
		return c.Next()
	})
	app.Post("/api/payment/checkout-session", HandleCreateCheckoutSession)

	req := httptest.NewRequest("POST", "/api/payment/checkout-session",
		bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
