package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gigbookhq/gigbook/app/controllers"
	"github.com/gigbookhq/gigbook/internal/pkg/constants"
	"github.com/gigbookhq/gigbook/internal/pkg/middleware"
	"github.com/gigbookhq/gigbook/internal/pkg/oauth"
	"github.com/gigbookhq/gigbook/internal/pkg/session"
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
	h.registerAdminRoutes(app)
	h.registerWebhookRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

// registerAuthRoutes wires the login endpoints. These stay outside the
// UserContext middleware so the Goth session store does not collide with
// the app session.
func (h HttpRouter) registerAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")
	auth.Post("/login", controllers.HandleLogin)
	auth.Post("/logout", controllers.HandleLogout)
	auth.Get("/google", controllers.HandleGoogleLogin)
	auth.Get("/google/callback", controllers.HandleGoogleCallback)
}

// registerAdminRoutes wires the calendar connection management surface.
// Every route fails fast on role before any provider call happens.
func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	admin := app.Group(constants.AdminRoute, middleware.RequireAdmin)

	calendar := admin.Group("/calendar")
	calendar.Get("/connect", controllers.HandleCalendarConnect)
	calendar.Get("/callback", controllers.HandleCalendarCallback)
	calendar.Get("/status", controllers.HandleCalendarStatus)
	calendar.Post("/disconnect", controllers.HandleCalendarDisconnect)
	calendar.Post("/sync/:uuid", controllers.HandleCalendarSyncGig)
	calendar.Post("/pull", controllers.HandleCalendarPull)
	calendar.Post("/watch", controllers.HandleCalendarWatch)
}

// registerWebhookRoutes wires provider push endpoints. These are
// unauthenticated; Google does not send a session.
func (h HttpRouter) registerWebhookRoutes(app *fiber.App) {
	webhooks := app.Group(constants.WebhooksRoute)
	webhooks.Post("/google-calendar", controllers.HandleGoogleCalendarWebhook)
}
