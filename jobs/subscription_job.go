package jobs

import (
	"log"
	"time"

	"github.com/valetly/valetly_backend/database"
	"github.com/valetly/valetly_backend/domain"
	"github.com/valetly/valetly_backend/models"
	"github.com/valetly/valetly_backend/services"
)

func ExpireLapsedSubscriptions() {
	log.Println("Running job: ExpireLapsedSubscriptions...")

	now := time.Now().UTC()

	var candidates []models.FleetSubscription
	err := database.DB.
		Where("status IN ? AND end_date < ?", []string{
			models.SubscriptionStatusTrialing,
			models.SubscriptionStatusActive,
			models.SubscriptionStatusPastDue,
		}, now).
		Find(&candidates).Error
	if err != nil {
		log.Printf("Error checking for lapsed subscriptions: %v", err)
		return
	}

	expired := 0
	for _, sub := range candidates {
		if !domain.ExpireIfLapsed(&sub, now) {
			continue
		}
		if err := database.DB.Save(&sub).Error; err != nil {
			log.Printf("Error expiring subscription %s: %v", sub.ID, err)
			continue
		}
		expired++
	}

	if expired > 0 {
		log.Printf("Expired %d lapsed subscription(s).", expired)
	}
}

// CancelLapsedGracePeriods picks up past_due subscriptions whose grace
// period ran out without any further billing webhook arriving.
func CancelLapsedGracePeriods() {
	log.Println("Running job: CancelLapsedGracePeriods...")

	now := time.Now().UTC()

	var lapsed []models.FleetSubscription
	err := database.DB.
		Where("status = ? AND grace_period_end < ?", models.SubscriptionStatusPastDue, now).
		Find(&lapsed).Error
	if err != nil {
		log.Printf("Error checking for lapsed grace periods: %v", err)
		return
	}

	for _, sub := range lapsed {
		effects, err := domain.CancelSubscription(&sub, now)
		if err != nil {
			continue
		}
		if err := database.DB.Save(&sub).Error; err != nil {
			log.Printf("Error cancelling subscription %s: %v", sub.ID, err)
			continue
		}
		services.Dispatch(effects)
	}

	if len(lapsed) > 0 {
		log.Printf("Cancelled %d subscription(s) past their grace period.", len(lapsed))
	}
}

func RenewDueSubscriptions() {
	services.RenewDueSubscriptions()
}
