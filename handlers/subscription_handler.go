package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/valetly/valetly_backend/database"
	"github.com/valetly/valetly_backend/domain"
	"github.com/valetly/valetly_backend/models"
	"github.com/valetly/valetly_backend/services"
)

type CreateFleetRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

func CreateFleet(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req CreateFleetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	fleet := models.Fleet{
		Name:        req.Name,
		OwnerUserID: userID,
	}
	if err := database.DB.Create(&fleet).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create fleet"})
	}

	return c.Status(fiber.StatusCreated).JSON(fleet)
}

type CreateSubscriptionRequest struct {
	FleetID string `json:"fleet_id" validate:"required,uuid"`
	PlanID  string `json:"plan_id" validate:"required,uuid"`
}

func CreateSubscription(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req CreateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	fleetID, _ := uuid.Parse(req.FleetID)
	planID, _ := uuid.Parse(req.PlanID)

	var fleet models.Fleet
	if err := database.DB.Where("id = ? AND owner_user_id = ?", fleetID, userID).First(&fleet).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Fleet not found"})
	}

	result, err := services.CreateSubscription(fleetID, planID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plan not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create subscription"})
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func CancelSubscription(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	fleetID, err := uuid.Parse(c.Params("fleetId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid fleet ID format"})
	}

	var fleet models.Fleet
	if err := database.DB.Where("id = ? AND owner_user_id = ?", fleetID, userID).First(&fleet).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Fleet not found"})
	}

	sub, err := services.CancelFleetSubscription(fleetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No active subscription for this fleet"})
		}
		var ite *domain.InvalidTransitionError
		if errors.As(err, &ite) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ite.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel subscription"})
	}

	return c.JSON(fiber.Map{"message": "Subscription cancelled", "subscription": sub})
}

func GetMySubscription(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	fleetID, err := uuid.Parse(c.Params("fleetId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid fleet ID format"})
	}

	var fleet models.Fleet
	if err := database.DB.Where("id = ? AND owner_user_id = ?", fleetID, userID).First(&fleet).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Fleet not found"})
	}

	var sub models.FleetSubscription
	err = database.DB.Preload("Plan").
		Where("fleet_id = ? AND status IN ?", fleetID, []string{
			models.SubscriptionStatusPending,
			models.SubscriptionStatusTrialing,
			models.SubscriptionStatusActive,
			models.SubscriptionStatusPastDue,
		}).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No active subscription for this fleet"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(sub)
}

func ListPlans(c *fiber.Ctx) error {
	var plans []models.SubscriptionPlan
	database.DB.Where("is_active = ?", true).Order("price asc").Find(&plans)
	return c.JSON(plans)
}
