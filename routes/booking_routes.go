package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/valetly/valetly_backend/handlers"
	"github.com/valetly/valetly_backend/middleware"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Get("/me", handlers.GetMyBookings)
	booking.Post("", handlers.CreateBooking)
	booking.Post("/:bookingRef/cancel", handlers.CancelBooking)

	detailerBooking := api.Group("/detailer/bookings", middleware.Protected(), middleware.DetailerRequired())
	detailerBooking.Post("/:bookingRef/complete", handlers.CompleteBooking)
}
