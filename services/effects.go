package services

import (
	"log"

	"gorm.io/gorm/clause"

	"github.com/valetly/valetly_backend/database"
	"github.com/valetly/valetly_backend/domain"
	"github.com/valetly/valetly_backend/notifications"
)

func rowLock() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// Dispatch runs the effects a state machine transition asked for. It is
// called after the owning transaction has committed. Notification effects
// are fire-and-forget; ledger-adjacent effects (commission creation and
// reversal) rely on database constraints for exactly-once, so re-dispatch
// after a crash is harmless.
func Dispatch(effects []domain.Effect) {
	for _, e := range effects {
		switch eff := e.(type) {
		case domain.BookingCancelled:
			go notifications.Notify(database.DB, eff.UserID,
				"Booking Cancelled",
				"Your valet booking "+eff.BookingReference+" has been cancelled.",
				"booking_cancelled")
			if eff.DetailerID != nil {
				go notifications.Notify(database.DB, *eff.DetailerID,
					"Booking Cancelled",
					"Booking "+eff.BookingReference+" was cancelled by the customer.",
					"booking_cancelled")
			}

		case domain.BookingCompleted:
			go func(eff domain.BookingCompleted) {
				if err := CreateEarningForBooking(eff.BookingID); err != nil {
					log.Printf("🔥 Commission creation for booking %s failed: %v", eff.BookingReference, err)
				}
			}(eff)
			go notifications.Notify(database.DB, eff.UserID,
				"Valet Complete",
				"Your valet booking "+eff.BookingReference+" is complete. Thanks for using Valetly!",
				"booking_completed")

		case domain.RefundSucceeded:
			go func(eff domain.RefundSucceeded) {
				if err := ReverseEarningForBooking(eff.BookingID); err != nil {
					log.Printf("🔥 Commission reversal for booking %s failed: %v", eff.BookingID, err)
				}
			}(eff)
			go notifications.Notify(database.DB, eff.UserID,
				"Refund Processed",
				"Your refund has been processed and should reach your account in 5-10 working days.",
				"refund_succeeded")

		case domain.RefundFailed:
			go notifications.Notify(database.DB, eff.UserID,
				"Refund Problem",
				"We could not process your refund automatically. Our team has been notified.",
				"refund_failed")

		case domain.RefundDisputed:
			log.Printf("Refund for booking %s moved to disputed, awaiting admin resolution", eff.BookingID)

		case domain.SubscriptionPastDue:
			go notifyFleetOwner(eff.FleetID,
				"Payment Failed",
				"A subscription payment failed. Please update your payment details before the grace period ends.",
				"subscription_past_due")

		case domain.SubscriptionCancelled:
			go notifyFleetOwner(eff.FleetID,
				"Subscription Cancelled",
				"Your fleet subscription has been cancelled.",
				"subscription_cancelled")

		case domain.SubscriptionRenewed:
			go notifyFleetOwner(eff.FleetID,
				"Subscription Renewed",
				"Your fleet subscription payment was received. See you on the forecourt.",
				"subscription_renewed")
		}
	}
}
