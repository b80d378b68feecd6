package services

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/valetly/valetly_backend/database"
	"github.com/valetly/valetly_backend/domain"
	"github.com/valetly/valetly_backend/models"
	"github.com/valetly/valetly_backend/payments"
)

// RefundOutcome is the refund half of a cancellation response. Cancellation
// and refund are independent: the booking stays cancelled whatever happens
// in here.
type RefundOutcome struct {
	Eligible  bool    `json:"eligible"`
	Processed bool    `json:"processed"`
	Amount    float64 `json:"amount,omitempty"`
	Error     *string `json:"error,omitempty"`
}

func refundError(outcome RefundOutcome, err error) RefundOutcome {
	msg := err.Error()
	outcome.Error = &msg
	return outcome
}

// InitiateRefund runs the two-phase refund protocol for a cancelled booking:
// a pending RefundRecord is written durably before the outbound gateway call,
// then the gateway is called with the record id as idempotency key, then the
// outcome is confirmed either synchronously here or later by webhook.
func InitiateRefund(booking *models.Booking) RefundOutcome {
	outcome := RefundOutcome{Eligible: true}

	var original models.PaymentTransaction
	var record models.RefundRecord
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("booking_id = ? AND type = ? AND status = ?",
			booking.ID, models.TransactionTypePayment, models.TransactionStatusSucceeded).
			First(&original).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNoPaymentFound
			}
			return err
		}

		// one in-flight refund per (booking, originating transaction); the
		// partial unique index backs this check against concurrent clicks
		var active models.RefundRecord
		err = tx.Where("booking_id = ? AND payment_transaction_id = ? AND status = ?",
			booking.ID, original.ID, models.RefundStatusPending).First(&active).Error
		if err == nil {
			return errors.New("a refund for this booking is already being processed")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		record = models.RefundRecord{
			BookingID:            booking.ID,
			PaymentTransactionID: original.ID,
			Amount:               original.Amount,
			Status:               models.RefundStatusPending,
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return refundError(outcome, err)
	}

	outcome.Amount = original.Amount

	refundID, err := payments.Client.CreateRefund(original.GatewayIntentID, original.Amount, record.ID.String())
	if err != nil {
		if errors.Is(err, payments.ErrGatewayTimeout) {
			// unknown outcome: the record stays pending for webhook or
			// admin reconciliation, never a blind retry
			log.Printf("🔥 Refund call for booking %s timed out, leaving record %s pending", booking.BookingReference, record.ID)
			return refundError(outcome, err)
		}

		reason := err.Error()
		now := time.Now().UTC()
		record.Status = models.RefundStatusFailed
		record.FailureReason = &reason
		record.ProcessedAt = &now
		if saveErr := database.DB.Save(&record).Error; saveErr != nil {
			log.Printf("🔥 Failed to record refund failure for booking %s: %v", booking.BookingReference, saveErr)
		}
		return refundError(outcome, &domain.GatewayError{Op: "refund", Err: err})
	}

	// optimistic synchronous confirmation; the webhook for the same refund id
	// reconciles against this instead of duplicating it
	if err := ConfirmRefundSuccess(&record, refundID, original.Amount, original.Currency); err != nil {
		log.Printf("🔥 Failed to confirm synchronous refund %s: %v", refundID, err)
		return refundError(outcome, err)
	}

	Dispatch([]domain.Effect{domain.RefundSucceeded{
		BookingID: booking.ID,
		UserID:    booking.UserID,
		Amount:    original.Amount,
	}})

	outcome.Processed = true
	return outcome
}

// ConfirmRefundSuccess transitions a refund record to succeeded and appends
// the refund ledger row in one transaction. Both the synchronous path and
// webhook ingestion land here; a record that is already succeeded and a
// ledger row that already exists are each left alone, so the second arrival
// of the same outcome is a no-op.
func ConfirmRefundSuccess(record *models.RefundRecord, gatewayRefundID string, amount float64, currency string) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var current models.RefundRecord
		if err := tx.Clauses(rowLock()).First(&current, "id = ?", record.ID).Error; err != nil {
			return err
		}
		if current.RefundTerminal() {
			*record = current
			return nil
		}

		now := time.Now().UTC()
		current.Status = models.RefundStatusSucceeded
		current.GatewayRefundID = &gatewayRefundID
		current.ProcessedAt = &now
		if err := tx.Save(&current).Error; err != nil {
			return err
		}

		var existing models.PaymentTransaction
		err := tx.Where("gateway_intent_id = ?", gatewayRefundID).First(&existing).Error
		if err == nil {
			*record = current
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var booking models.Booking
		if err := tx.First(&booking, "id = ?", current.BookingID).Error; err != nil {
			return err
		}

		ledgerRow := models.PaymentTransaction{
			Type:            models.TransactionTypeRefund,
			Amount:          amount,
			Currency:        currency,
			GatewayIntentID: gatewayRefundID,
			Status:          models.TransactionStatusSucceeded,
			BookingID:       &current.BookingID,
			UserID:          booking.UserID,
		}
		if err := tx.Create(&ledgerRow).Error; err != nil {
			return asDuplicateEvent(err)
		}

		*record = current
		return nil
	})
	if errors.Is(err, domain.ErrDuplicateEvent) {
		// a racing delivery of the same outcome already appended the row
		return nil
	}
	return err
}

// MarkRefundFailed records a refund failure reported by webhook. Terminal
// records are left untouched.
func MarkRefundFailed(record *models.RefundRecord, reason string) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var current models.RefundRecord
		if err := tx.Clauses(rowLock()).First(&current, "id = ?", record.ID).Error; err != nil {
			return err
		}
		if current.RefundTerminal() {
			*record = current
			return nil
		}

		now := time.Now().UTC()
		current.Status = models.RefundStatusFailed
		current.FailureReason = &reason
		current.ProcessedAt = &now
		if err := tx.Save(&current).Error; err != nil {
			return err
		}
		*record = current
		return nil
	})
}
