package domain

import "github.com/google/uuid"

// Effect is a side effect requested by a state machine transition. The
// transitions themselves stay pure; a single dispatcher in the services layer
// runs the effects after the owning transaction commits.
type Effect interface {
	effect()
}

type BookingCancelled struct {
	BookingID        uuid.UUID
	BookingReference string
	UserID           uuid.UUID
	DetailerID       *uuid.UUID
}

type BookingCompleted struct {
	BookingID        uuid.UUID
	BookingReference string
	UserID           uuid.UUID
}

type RefundSucceeded struct {
	BookingID uuid.UUID
	UserID    uuid.UUID
	Amount    float64
}

type RefundFailed struct {
	BookingID uuid.UUID
	UserID    uuid.UUID
	Reason    string
}

type RefundDisputed struct {
	BookingID uuid.UUID
	UserID    uuid.UUID
}

type SubscriptionPastDue struct {
	SubscriptionID uuid.UUID
	FleetID        uuid.UUID
}

type SubscriptionCancelled struct {
	SubscriptionID uuid.UUID
	FleetID        uuid.UUID
}

type SubscriptionRenewed struct {
	SubscriptionID uuid.UUID
	FleetID        uuid.UUID
}

func (BookingCancelled) effect()      {}
func (BookingCompleted) effect()      {}
func (RefundSucceeded) effect()       {}
func (RefundFailed) effect()          {}
func (RefundDisputed) effect()        {}
func (SubscriptionPastDue) effect()   {}
func (SubscriptionCancelled) effect() {}
func (SubscriptionRenewed) effect()   {}
