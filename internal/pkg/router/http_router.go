package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eurodash/eurodash/app/controllers"
	"github.com/eurodash/eurodash/internal/pkg/middleware"
	"github.com/eurodash/eurodash/internal/pkg/oauth"
	"github.com/eurodash/eurodash/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerAuthRoutes(app)

	// Mailed report links land here; the token in the query is the credential.
	app.Get("/report/download", controllers.HandleReportDownload)
}

func (h HttpRouter) registerAuthRoutes(app *fiber.App) {
	app.Get("/auth/:provider", controllers.HandleOAuthLogin)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
