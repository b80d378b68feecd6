package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/valetly/valetly_backend/database"
	"github.com/valetly/valetly_backend/domain"
	"github.com/valetly/valetly_backend/models"
	"github.com/valetly/valetly_backend/notifications"
	"github.com/valetly/valetly_backend/payments"
)

// SubscriptionResult is the subscription-creation response: the new
// subscription, its first billing row, trial info and the payment-setup
// payload for the client. SetupError reports a gateway failure without
// rolling back the already-committed subscription.
type SubscriptionResult struct {
	Subscription *models.FleetSubscription   `json:"subscription"`
	Billing      *models.SubscriptionBilling `json:"billing"`
	TrialDays    int                         `json:"trial_days"`
	PaymentSetup *payments.PaymentIntent     `json:"payment_setup,omitempty"`
	SetupError   *string                     `json:"setup_error,omitempty"`
}

var nonTerminalSubscriptionStatuses = []string{
	models.SubscriptionStatusPending,
	models.SubscriptionStatusTrialing,
	models.SubscriptionStatusActive,
	models.SubscriptionStatusPastDue,
}

// CreateSubscription purchases a plan for a fleet. The fleet row lock
// serializes concurrent purchases for the same fleet: any existing
// non-terminal subscription is cancelled inside the same transaction, so at
// most one non-terminal subscription per fleet ever exists.
func CreateSubscription(fleetID, planID uuid.UUID) (*SubscriptionResult, error) {
	now := time.Now().UTC()

	var sub models.FleetSubscription
	var billing models.SubscriptionBilling
	var trialDays int
	var supersededEffects []domain.Effect
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var fleet models.Fleet
		err := tx.Clauses(rowLock()).First(&fleet, "id = ?", fleetID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		var plan models.SubscriptionPlan
		err = tx.Where("id = ? AND is_active = ?", planID, true).First(&plan).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		// superseded subscriptions go through the same cancellation
		// transition as a fleet-initiated cancel: auto_renew cleared,
		// cancellation effect dispatched after commit
		var superseded []models.FleetSubscription
		err = tx.Where("fleet_id = ? AND status IN ?", fleet.ID, nonTerminalSubscriptionStatuses).
			Find(&superseded).Error
		if err != nil {
			return err
		}
		for i := range superseded {
			effects, err := domain.CancelSubscription(&superseded[i], now)
			if err != nil {
				return err
			}
			if err := tx.Save(&superseded[i]).Error; err != nil {
				return err
			}
			supersededEffects = append(supersededEffects, effects...)
		}

		sub = models.FleetSubscription{
			FleetID:   fleet.ID,
			PlanID:    plan.ID,
			Status:    models.SubscriptionStatusPending,
			StartDate: now,
			AutoRenew: true,
		}

		billingDate := now
		if domain.TrialAllowed(&plan, &fleet) {
			var earlyAdopterCount int64
			if err := tx.Model(&models.FleetSubscription{}).Where("is_early_adopter = ?", true).Count(&earlyAdopterCount).Error; err != nil {
				return err
			}

			days, early := domain.TrialLength(earlyAdopterCount)
			trialDays = days
			trialEnd := now.Add(time.Duration(days) * 24 * time.Hour)

			sub.Status = models.SubscriptionStatusTrialing
			sub.IsEarlyAdopter = early
			sub.TrialStart = &now
			sub.TrialEnd = &trialEnd
			sub.EndDate = &trialEnd
			billingDate = trialEnd

			// one trial per fleet, ever
			fleet.HasUsedTrial = true
			if err := tx.Save(&fleet).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(&sub).Error; err != nil {
			return err
		}

		billing = models.SubscriptionBilling{
			SubscriptionID: sub.ID,
			Amount:         plan.Price,
			Currency:       plan.Currency,
			BillingDate:    billingDate,
			Status:         models.BillingStatusPending,
		}
		return tx.Create(&billing).Error
	})
	if err != nil {
		return nil, err
	}

	Dispatch(supersededEffects)

	result := &SubscriptionResult{
		Subscription: &sub,
		Billing:      &billing,
		TrialDays:    trialDays,
	}

	// outbound call after commit; a failure here leaves the subscription in
	// place and is reported alongside it
	intent, err := payments.Client.CreatePaymentIntent(billing.Amount, billing.Currency, "", map[string]string{
		"subscription_billing_id": billing.ID.String(),
		"fleet_id":                fleetID.String(),
	})
	if err != nil {
		log.Printf("🔥 Payment setup for subscription %s failed: %v", sub.ID, err)
		msg := err.Error()
		result.SetupError = &msg
		return result, nil
	}

	billing.GatewayTransactionID = &intent.ID
	if err := database.DB.Save(&billing).Error; err != nil {
		return nil, err
	}
	result.PaymentSetup = intent
	return result, nil
}

// CancelFleetSubscription applies a fleet-initiated cancellation of the
// fleet's current non-terminal subscription.
func CancelFleetSubscription(fleetID uuid.UUID) (*models.FleetSubscription, error) {
	now := time.Now().UTC()

	var sub models.FleetSubscription
	var effects []domain.Effect
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(rowLock()).
			Where("fleet_id = ? AND status IN ?", fleetID, nonTerminalSubscriptionStatuses).
			First(&sub).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		effects, err = domain.CancelSubscription(&sub, now)
		if err != nil {
			return err
		}
		return tx.Save(&sub).Error
	})
	if err != nil {
		return nil, err
	}

	Dispatch(effects)
	return &sub, nil
}

// RenewDueSubscriptions creates the next pending billing row and payment
// intent for active subscriptions whose period has ended. Run from the cron
// sweep; re-running never duplicates a cycle because an open pending row
// blocks a new one.
func RenewDueSubscriptions() {
	now := time.Now().UTC()

	var due []models.FleetSubscription
	err := database.DB.Preload("Plan").
		Where("status IN ? AND auto_renew = ? AND end_date <= ?",
			[]string{models.SubscriptionStatusActive, models.SubscriptionStatusTrialing}, true, now).
		Find(&due).Error
	if err != nil {
		log.Printf("🔥 Renewal sweep query failed: %v", err)
		return
	}

	for _, sub := range due {
		var open int64
		err := database.DB.Model(&models.SubscriptionBilling{}).
			Where("subscription_id = ? AND status = ?", sub.ID, models.BillingStatusPending).
			Count(&open).Error
		if err != nil || open > 0 {
			continue
		}

		billing := models.SubscriptionBilling{
			SubscriptionID: sub.ID,
			Amount:         sub.Plan.Price,
			Currency:       sub.Plan.Currency,
			BillingDate:    now,
			Status:         models.BillingStatusPending,
		}
		if err := database.DB.Create(&billing).Error; err != nil {
			log.Printf("🔥 Failed to create renewal billing for subscription %s: %v", sub.ID, err)
			continue
		}

		intent, err := payments.Client.CreatePaymentIntent(billing.Amount, billing.Currency, "", map[string]string{
			"subscription_billing_id": billing.ID.String(),
			"fleet_id":                sub.FleetID.String(),
		})
		if err != nil {
			log.Printf("🔥 Renewal charge for subscription %s failed to initiate: %v", sub.ID, err)
			continue
		}
		billing.GatewayTransactionID = &intent.ID
		if err := database.DB.Save(&billing).Error; err != nil {
			log.Printf("🔥 Failed to store gateway transaction id for billing %s: %v", billing.ID, err)
		}
	}
}

func notifyFleetOwner(fleetID uuid.UUID, title, body, typeTag string) {
	var fleet models.Fleet
	if err := database.DB.First(&fleet, "id = ?", fleetID).Error; err != nil {
		log.Printf("notify(%s): fleet %s not found, skipping", typeTag, fleetID)
		return
	}
	notifications.Notify(database.DB, fleet.OwnerUserID, title, body, typeTag)
}
