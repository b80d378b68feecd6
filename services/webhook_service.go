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

// ProcessEvent is the single ingestion point for asynchronous gateway
// notifications. Events may arrive duplicated and in any order; every branch
// is idempotent by the relevant gateway identifier.
func ProcessEvent(evt payments.GatewayEvent) error {
	switch e := evt.(type) {
	case payments.PaymentSucceededEvent:
		// subscription charges are payment intents too, routed by metadata
		if e.SubscriptionBillingID != "" {
			return applyBillingOutcome(e.IntentID, true, "")
		}
		return ingestPaymentOutcome(e.IntentID, e.Amount, e.Currency, e.BookingReference, e.UserID, models.TransactionStatusSucceeded)
	case payments.PaymentFailedEvent:
		if e.SubscriptionBillingID != "" {
			return applyBillingOutcome(e.IntentID, false, e.Reason)
		}
		return ingestPaymentOutcome(e.IntentID, 0, "", e.BookingReference, e.UserID, models.TransactionStatusFailed)
	case payments.RefundSucceededEvent:
		return ingestRefundSucceeded(e)
	case payments.RefundFailedEvent:
		return ingestRefundFailed(e)
	case payments.DisputeCreatedEvent:
		return ingestDisputeCreated(e)
	case payments.InvoicePaidEvent:
		return ingestBillingPaid(e)
	case payments.InvoiceFailedEvent:
		return ingestBillingFailed(e)
	case payments.UnknownEvent:
		// acknowledged without side effects
		return nil
	}
	return nil
}

// asDuplicateEvent maps a unique-constraint violation onto the duplicate
// event sentinel. Two concurrent deliveries of the same intent both pass the
// existence check; the loser's insert hits the unique index and must be
// absorbed like any other replay, not surfaced as an error.
func asDuplicateEvent(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateEvent
	}
	return err
}

// ingestPaymentOutcome appends one ledger row per gateway intent. A replayed
// event finds the existing row and returns success without side effects.
func ingestPaymentOutcome(intentID string, amount float64, currency, bookingRef, userIDRaw, status string) error {
	if intentID == "" {
		return &domain.ValidationError{Reason: "payment event missing intent identifier"}
	}
	userID, err := uuid.Parse(userIDRaw)
	if err != nil {
		return &domain.ValidationError{Reason: "payment event missing or malformed user_id metadata"}
	}

	var booking *models.Booking
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.PaymentTransaction
		err := tx.Where("gateway_intent_id = ?", intentID).First(&existing).Error
		if err == nil {
			return domain.ErrDuplicateEvent
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &domain.ValidationError{Reason: "payment event references unknown user"}
			}
			return err
		}

		// payment may precede booking creation; the linkage is optional
		row := models.PaymentTransaction{
			Type:            models.TransactionTypePayment,
			Amount:          amount,
			Currency:        currency,
			GatewayIntentID: intentID,
			Status:          status,
			UserID:          userID,
		}
		if bookingRef != "" {
			var b models.Booking
			err := tx.Clauses(rowLock()).Where("booking_reference = ?", bookingRef).First(&b).Error
			if err == nil {
				row.BookingID = &b.ID
				booking = &b
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		if err := tx.Create(&row).Error; err != nil {
			return asDuplicateEvent(err)
		}

		if booking != nil && status == models.TransactionStatusSucceeded {
			return ConfirmBookingPayment(tx, booking)
		}
		return nil
	})
	if errors.Is(err, domain.ErrDuplicateEvent) {
		// duplicate delivery is expected and harmless
		return nil
	}
	if err != nil {
		return err
	}

	if booking != nil && status == models.TransactionStatusSucceeded {
		go notifications.Notify(database.DB, booking.UserID,
			"Booking Confirmed",
			"Payment received, your valet booking "+booking.BookingReference+" is confirmed.",
			"booking_confirmed")
	}
	return nil
}

// findRefundRecord locates the record for a refund-outcome event. The
// synchronous path stored the gateway refund id; a webhook-first arrival
// falls back to the pending record behind the original payment intent.
func findRefundRecord(refundID, intentID string) (*models.RefundRecord, error) {
	var record models.RefundRecord
	err := database.DB.Where("gateway_refund_id = ?", refundID).First(&record).Error
	if err == nil {
		return &record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if intentID == "" {
		return nil, gorm.ErrRecordNotFound
	}

	var original models.PaymentTransaction
	if err := database.DB.Where("gateway_intent_id = ?", intentID).First(&original).Error; err != nil {
		return nil, err
	}
	err = database.DB.Where("payment_transaction_id = ? AND status = ?",
		original.ID, models.RefundStatusPending).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func ingestRefundSucceeded(e payments.RefundSucceededEvent) error {
	record, err := findRefundRecord(e.RefundID, e.IntentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Refund webhook %s matches no refund record, ignoring", e.RefundID)
			return nil
		}
		return err
	}
	if record.RefundTerminal() {
		return nil
	}

	if err := ConfirmRefundSuccess(record, e.RefundID, record.Amount, e.Currency); err != nil {
		return err
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", record.BookingID).Error; err != nil {
		return err
	}
	Dispatch([]domain.Effect{domain.RefundSucceeded{
		BookingID: record.BookingID,
		UserID:    booking.UserID,
		Amount:    record.Amount,
	}})
	return nil
}

func ingestRefundFailed(e payments.RefundFailedEvent) error {
	record, err := findRefundRecord(e.RefundID, e.IntentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Refund-failed webhook %s matches no refund record, ignoring", e.RefundID)
			return nil
		}
		return err
	}
	if record.RefundTerminal() {
		return nil
	}

	if err := MarkRefundFailed(record, e.Reason); err != nil {
		return err
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", record.BookingID).Error; err != nil {
		return err
	}
	Dispatch([]domain.Effect{domain.RefundFailed{
		BookingID: record.BookingID,
		UserID:    booking.UserID,
		Reason:    e.Reason,
	}})
	return nil
}

func ingestDisputeCreated(e payments.DisputeCreatedEvent) error {
	record, err := findRefundRecord(e.RefundID, "")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Dispute webhook %s matches no refund record, ignoring", e.RefundID)
			return nil
		}
		return err
	}
	if record.Status == models.RefundStatusDisputed {
		return nil
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var current models.RefundRecord
		if err := tx.Clauses(rowLock()).First(&current, "id = ?", record.ID).Error; err != nil {
			return err
		}
		if current.Status == models.RefundStatusDisputed {
			return nil
		}
		current.Status = models.RefundStatusDisputed
		current.DisputeReason = &e.Reason
		return tx.Save(&current).Error
	})
	if err != nil {
		return err
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", record.BookingID).Error; err != nil {
		return err
	}
	Dispatch([]domain.Effect{domain.RefundDisputed{
		BookingID: record.BookingID,
		UserID:    booking.UserID,
	}})
	return nil
}

// applyBillingOutcome flips the billing row and drives the subscription
// state machine, all inside one transaction keyed on the gateway transaction
// id stored on the billing row.
func applyBillingOutcome(gatewayTxnID string, paid bool, reason string) error {
	if gatewayTxnID == "" {
		return &domain.ValidationError{Reason: "billing event missing transaction identifier"}
	}

	var effects []domain.Effect
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var billing models.SubscriptionBilling
		err := tx.Clauses(rowLock()).
			Where("gateway_transaction_id = ?", gatewayTxnID).
			First(&billing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("Billing webhook %s matches no billing row, ignoring", gatewayTxnID)
				return nil
			}
			return err
		}
		if billing.Status != models.BillingStatusPending {
			return domain.ErrDuplicateEvent
		}

		var sub models.FleetSubscription
		if err := tx.Clauses(rowLock()).Preload("Plan").First(&sub, "id = ?", billing.SubscriptionID).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		if paid {
			billing.Status = models.BillingStatusPaid
			effects = domain.ApplyBillingSuccess(&sub, now, sub.Plan.IntervalDays)
		} else {
			billing.Status = models.BillingStatusFailed
			billing.FailureReason = &reason
			effects = domain.ApplyBillingFailure(&sub, now)
		}
		if err := tx.Save(&billing).Error; err != nil {
			return err
		}
		return tx.Save(&sub).Error
	})
	if errors.Is(err, domain.ErrDuplicateEvent) {
		return nil
	}
	if err != nil {
		return err
	}

	Dispatch(effects)
	return nil
}

func ingestBillingPaid(e payments.InvoicePaidEvent) error {
	return applyBillingOutcome(e.TransactionID, true, "")
}

func ingestBillingFailed(e payments.InvoiceFailedEvent) error {
	return applyBillingOutcome(e.TransactionID, false, e.Reason)
}
