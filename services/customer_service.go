package services

import (
	"log"

	"github.com/google/uuid"

	"github.com/valetly/valetly_backend/database"
	"github.com/valetly/valetly_backend/models"
	"github.com/valetly/valetly_backend/payments"
)

// EnsureGatewayCustomer returns the user's gateway customer reference,
// creating one on first use. Creation is best-effort: a gateway failure
// returns an empty reference and the charge proceeds without a customer
// attached rather than blocking the booking.
func EnsureGatewayCustomer(userID uuid.UUID) string {
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return ""
	}
	if user.GatewayCustomerID != nil {
		return *user.GatewayCustomerID
	}

	ref, err := payments.Client.CreateCustomer(user.Email, user.FullName)
	if err != nil {
		log.Printf("Gateway customer creation for user %s failed: %v", user.ID, err)
		return ""
	}

	user.GatewayCustomerID = &ref
	if err := database.DB.Save(&user).Error; err != nil {
		log.Printf("🔥 Failed to store gateway customer id for user %s: %v", user.ID, err)
	}
	return ref
}
