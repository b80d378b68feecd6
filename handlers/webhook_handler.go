package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/valetly/valetly_backend/domain"
	"github.com/valetly/valetly_backend/payments"
	"github.com/valetly/valetly_backend/services"
)

// HandleGatewayWebhook is the single entry point for asynchronous gateway
// notifications. It returns 200 for every event type it does not recognise
// so the gateway never retry-storms us, and 400 only for payloads that are
// malformed or fail signature verification.
func HandleGatewayWebhook(c *fiber.Ctx) error {
	body := c.Body()

	if gw, ok := payments.Client.(*payments.StripeGateway); ok {
		if err := gw.VerifySignature(body, c.Get("Stripe-Signature")); err != nil {
			log.Printf("Webhook signature verification failed: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid webhook signature"})
		}
	}

	evt, err := payments.ParseEvent(body)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	if unknown, isUnknown := evt.(payments.UnknownEvent); isUnknown {
		log.Printf("Ignoring unhandled webhook event type: %s", unknown.Type)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Event type not handled"})
	}

	if err := services.ProcessEvent(evt); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ve.Error()})
		}
		log.Printf("🔥 CRITICAL: webhook processing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process webhook"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook processed successfully"})
}
