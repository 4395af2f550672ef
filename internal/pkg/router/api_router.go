package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/eurodash/eurodash/app/controllers"
	"github.com/eurodash/eurodash/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max: 120,
		// Stripe retries aggressively on 429; never rate-limit the webhook.
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/api/payment/webhook"
		},
	}))

	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// auth
	api.Get("/auth/me", controllers.HandleAuthMe)
	api.Post("/auth/logout", controllers.HandleLogout)

	// payments
	pay := api.Group("/payment")
	pay.Post("/webhook", controllers.HandleStripeWebhook)
	pay.Get("/products", controllers.HandleListProducts)
	pay.Post("/checkout-session", middleware.RequireAPISessionAuth, controllers.HandleCreateCheckoutSession)
	pay.Get("/purchases", middleware.RequireAPISessionAuth, controllers.HandleGetPurchaseHistory)

	// dashboard data
	dash := api.Group("/dashboard")
	dash.Get("/economic-data", controllers.HandleGetEconomicData)
	dash.Get("/economic-data/country/:code", controllers.HandleGetCountryData)
	dash.Get("/economic-data/indicator/:code", controllers.HandleGetIndicatorData)
	dash.Get("/analysis", controllers.HandleGetAnalysisResults)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
