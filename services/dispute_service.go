package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/valetly/valetly_backend/database"
	"github.com/valetly/valetly_backend/domain"
	"github.com/valetly/valetly_backend/models"
)

// ResolveRefundDispute is the manual admin step for a disputed refund. The
// admin decides whether the refund ultimately went through; a succeeded
// resolution with a known gateway refund id also appends the ledger row the
// automatic path would have written.
func ResolveRefundDispute(recordID, adminID uuid.UUID, outcome string) (*models.RefundRecord, error) {
	if outcome != models.RefundStatusSucceeded && outcome != models.RefundStatusFailed {
		return nil, &domain.ValidationError{Reason: "outcome must be succeeded or failed"}
	}

	now := time.Now().UTC()

	var record models.RefundRecord
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(rowLock()).First(&record, "id = ?", recordID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if record.Status != models.RefundStatusDisputed {
			return &domain.InvalidTransitionError{From: record.Status, To: outcome, Reason: "only disputed refunds can be resolved"}
		}

		record.Status = outcome
		record.DisputeResolvedBy = &adminID
		record.DisputeResolvedAt = &now
		record.ProcessedAt = &now
		if err := tx.Save(&record).Error; err != nil {
			return err
		}

		if outcome == models.RefundStatusSucceeded && record.GatewayRefundID != nil {
			var existing models.PaymentTransaction
			err := tx.Where("gateway_intent_id = ?", *record.GatewayRefundID).First(&existing).Error
			if err == nil {
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			var booking models.Booking
			if err := tx.First(&booking, "id = ?", record.BookingID).Error; err != nil {
				return err
			}
			ledgerRow := models.PaymentTransaction{
				Type:            models.TransactionTypeRefund,
				Amount:          record.Amount,
				Currency:        booking.Currency,
				GatewayIntentID: *record.GatewayRefundID,
				Status:          models.TransactionStatusSucceeded,
				BookingID:       &record.BookingID,
				UserID:          booking.UserID,
			}
			return tx.Create(&ledgerRow).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if record.Status == models.RefundStatusSucceeded {
		var booking models.Booking
		if err := database.DB.First(&booking, "id = ?", record.BookingID).Error; err == nil {
			Dispatch([]domain.Effect{domain.RefundSucceeded{
				BookingID: record.BookingID,
				UserID:    booking.UserID,
				Amount:    record.Amount,
			}})
		}
	}
	return &record, nil
}
