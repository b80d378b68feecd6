package payments

import "errors"

// ErrGatewayTimeout marks an outbound call whose outcome is unknown. Callers
// must not retry blindly (a blind retry risks a double refund); the pending
// ledger row is left for webhook reconciliation or manual admin action.
var ErrGatewayTimeout = errors.New("gateway call timed out, outcome unknown")

type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// Gateway is the narrow surface the core needs from the payment provider.
// The rest of the provider SDK never leaks past this package.
type Gateway interface {
	CreateCustomer(email, name string) (string, error)
	CreatePaymentIntent(amount float64, currency, customerRef string, metadata map[string]string) (*PaymentIntent, error)
	CreateRefund(chargeRef string, amount float64, idempotencyKey string) (string, error)
}

// Client is the process-wide gateway, set by InitGateway in main. Tests
// swap in a fake.
var Client Gateway
