package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/JonasWeidner/StayAtlas/app/controllers"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/middleware"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Resolve the host context on every request before any route runs.
	app.Use(middleware.HostContextMiddleware())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// The processor posts raw JSON here; it lives outside /api so the
	// rate limiter never drops a delivery.
	app.Post("/webhooks/stripe", controllers.HandleBillingWebhook)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
