package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/valetly/valetly_backend/handlers"
	"github.com/valetly/valetly_backend/middleware"
)

func AdminRoutes(app *fiber.App) {
	admin := app.Group("/api/v1/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/refunds/disputed", handlers.ListDisputedRefunds)
	admin.Post("/refunds/:refundId/resolve", handlers.ResolveRefundDispute)
	admin.Post("/plans", handlers.CreatePlan)
}
