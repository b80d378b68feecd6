package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrNoPaymentFound = errors.New("no succeeded payment found for this booking")
	ErrDuplicateEvent = errors.New("event already processed")
)

// ValidationError covers missing or malformed request fields. It fails fast
// before any write.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// InvalidTransitionError is returned when a state machine guard rejects a
// transition. Reason is human-readable and surfaced to the caller.
type InvalidTransitionError struct {
	From   string
	To     string
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

// GatewayError wraps a failed outbound gateway call. State changes committed
// before the call are not rolled back; the failure is recorded into the
// relevant ledger row instead.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s failed: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
