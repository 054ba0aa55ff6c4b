package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/JonasWeidner/StayAtlas/app/controllers"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())

	v1 := api.Group("/v1")

	// Public directory surface
	v1.Get("/properties", controllers.HandleSearchProperties)
	v1.Get("/properties/:slug", controllers.HandleGetProperty)
	v1.Post("/properties/:slug/click", controllers.HandleRecordClick)
	v1.Get("/cities", controllers.HandleHostCities)
	v1.Get("/stats", controllers.HandleDirectoryStats)

	// Host surface: everything below requires a verified host token.
	host := v1.Group("/host", middleware.RequireHost)
	host.Get("/properties", controllers.HandleHostProperties)
	host.Post("/properties", controllers.HandleCreateProperty)
	host.Put("/properties/:slug", controllers.HandleUpdateProperty)
	host.Delete("/properties/:slug", controllers.HandleDeleteProperty)
	host.Get("/stats", controllers.HandleHostStats)
	host.Post("/billing/checkout", controllers.HandleCreateCheckoutSession)
	host.Post("/billing/portal", controllers.HandleCreateBillingPortal)
	host.Post("/billing/sync", controllers.HandleBillingSync)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
