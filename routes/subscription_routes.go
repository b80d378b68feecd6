package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/valetly/valetly_backend/handlers"
	"github.com/valetly/valetly_backend/middleware"
)

func SubscriptionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/plans", handlers.ListPlans)

	fleets := api.Group("/fleets", middleware.Protected(), middleware.FleetManagerRequired())
	fleets.Post("", handlers.CreateFleet)
	fleets.Post("/subscriptions", handlers.CreateSubscription)
	fleets.Get("/:fleetId/subscription", handlers.GetMySubscription)
	fleets.Delete("/:fleetId/subscription", handlers.CancelSubscription)
}
