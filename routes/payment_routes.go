package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/valetly/valetly_backend/handlers"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/payments/webhook", handlers.HandleGatewayWebhook)
}
