package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/valetly/valetly_backend/database"
	"github.com/valetly/valetly_backend/domain"
	"github.com/valetly/valetly_backend/models"
	"github.com/valetly/valetly_backend/services"
)

func ListDisputedRefunds(c *fiber.Ctx) error {
	var records []models.RefundRecord
	database.DB.
		Preload("Booking").
		Where("status = ?", models.RefundStatusDisputed).
		Order("created_at asc").
		Find(&records)

	return c.JSON(records)
}

type ResolveDisputeRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=succeeded failed"`
}

func ResolveRefundDispute(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	adminID, _ := uuid.Parse(claims["user_id"].(string))

	recordID, err := uuid.Parse(c.Params("refundId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid refund ID format"})
	}

	var req ResolveDisputeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	record, err := services.ResolveRefundDispute(recordID, adminID, req.Outcome)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Refund record not found"})
		}
		var ite *domain.InvalidTransitionError
		if errors.As(err, &ite) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ite.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to resolve dispute"})
	}

	return c.JSON(fiber.Map{"message": "Dispute resolved", "refund": record})
}

type CreatePlanRequest struct {
	Name         string  `json:"name" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	IntervalDays int     `json:"interval_days" validate:"required,min=1"`
	MaxVehicles  int     `json:"max_vehicles" validate:"required,min=1"`
}

func CreatePlan(c *fiber.Ctx) error {
	var req CreatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	plan := models.SubscriptionPlan{
		Name:         req.Name,
		Price:        req.Price,
		Currency:     "GBP",
		IntervalDays: req.IntervalDays,
		MaxVehicles:  req.MaxVehicles,
		IsActive:     true,
	}
	if err := database.DB.Create(&plan).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create plan"})
	}

	return c.Status(fiber.StatusCreated).JSON(plan)
}
