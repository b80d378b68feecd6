package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/valetly/valetly_backend/database"
	"github.com/valetly/valetly_backend/domain"
	"github.com/valetly/valetly_backend/models"
	"github.com/valetly/valetly_backend/payments"
	"github.com/valetly/valetly_backend/services"
	"github.com/valetly/valetly_backend/utils"
)

type CreateBookingRequest struct {
	VehicleID       *string `json:"vehicle_id,omitempty" validate:"omitempty,uuid"`
	ScheduledAt     string  `json:"scheduled_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes int     `json:"duration_minutes,omitempty" validate:"omitempty,min=30,max=480"`
	TotalAmount     float64 `json:"total_amount" validate:"required,gt=0"`
	ServiceNotes    *string `json:"service_notes,omitempty"`
}

func CreateBooking(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	scheduledAt, _ := time.Parse(time.RFC3339, req.ScheduledAt)
	if scheduledAt.Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Appointment time cannot be in the past"})
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = 60
	}

	var booking models.Booking
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		ref, err := utils.GenerateUniqueBookingReference(tx)
		if err != nil {
			return err
		}

		booking = models.Booking{
			BookingReference: ref,
			UserID:           userID,
			Status:           models.BookingStatusPending,
			ScheduledAt:      scheduledAt.UTC(),
			DurationMinutes:  duration,
			TotalAmount:      req.TotalAmount,
			Currency:         "GBP",
			ServiceNotes:     req.ServiceNotes,
		}
		if req.VehicleID != nil {
			vehicleID, _ := uuid.Parse(*req.VehicleID)
			var vehicle models.Vehicle
			if err := tx.Where("id = ? AND user_id = ?", vehicleID, userID).First(&vehicle).Error; err != nil {
				return errors.New("vehicle not found")
			}
			booking.VehicleID = &vehicle.ID
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		if err.Error() == "vehicle not found" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vehicle not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create booking"})
	}

	customerRef := services.EnsureGatewayCustomer(userID)
	intent, err := payments.Client.CreatePaymentIntent(booking.TotalAmount, booking.Currency, customerRef, map[string]string{
		"booking_reference": booking.BookingReference,
		"user_id":           userID.String(),
	})
	if err != nil {
		log.Printf("🔥 CRITICAL: payment intent for booking %s failed: %v", booking.BookingReference, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Payment could not be initiated, please try again."})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"booking":       booking,
		"client_secret": intent.ClientSecret,
	})
}

func CancelBooking(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	bookingRef := c.Params("bookingRef")

	result, err := services.CancelBooking(userID, bookingRef)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		var ite *domain.InvalidTransitionError
		if errors.As(err, &ite) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ite.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel booking"})
	}

	return c.JSON(result)
}

func CompleteBooking(c *fiber.Ctx) error {
	bookingRef := c.Params("bookingRef")

	booking, err := services.CompleteBooking(bookingRef)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		var ite *domain.InvalidTransitionError
		if errors.As(err, &ite) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ite.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to complete booking"})
	}

	return c.JSON(fiber.Map{"message": "Booking marked as complete", "booking": booking})
}

func GetMyBookings(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var bookings []models.Booking
	database.DB.
		Preload("Vehicle").
		Where("user_id = ?", userID).
		Order("scheduled_at desc").
		Find(&bookings)

	return c.JSON(bookings)
}
