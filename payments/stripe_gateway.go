package payments

import (
	"errors"
	"log"
	"math"
	"net"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/customer"
	"github.com/stripe/stripe-go/v84/paymentintent"
	"github.com/stripe/stripe-go/v84/refund"
	"github.com/stripe/stripe-go/v84/webhook"

	config "github.com/valetly/valetly_backend/configs"
)

type StripeGateway struct {
	webhookSecret string
}

func InitGateway() {
	secretKey := config.Config("STRIPE_SECRET_KEY")
	if secretKey == "" {
		log.Println("⚠️ STRIPE_SECRET_KEY not set, gateway calls will fail")
	}
	stripe.Key = secretKey

	Client = &StripeGateway{
		webhookSecret: config.Config("STRIPE_WEBHOOK_SECRET"),
	}
	log.Println("✅ Payment gateway initialized")
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (g *StripeGateway) CreateCustomer(email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	c, err := customer.New(params)
	if err != nil {
		return "", wrapGatewayErr(err)
	}
	return c.ID, nil
}

func (g *StripeGateway) CreatePaymentIntent(amount float64, currency, customerRef string, metadata map[string]string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(amount)),
		Currency: stripe.String(currency),
	}
	if customerRef != "" {
		params.Customer = stripe.String(customerRef)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, wrapGatewayErr(err)
	}
	return &PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (g *StripeGateway) CreateRefund(chargeRef string, amount float64, idempotencyKey string) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(chargeRef),
		Amount:        stripe.Int64(toMinorUnits(amount)),
	}
	params.IdempotencyKey = stripe.String(idempotencyKey)

	r, err := refund.New(params)
	if err != nil {
		return "", wrapGatewayErr(err)
	}
	return r.ID, nil
}

// VerifySignature checks the webhook signature when a webhook secret is
// configured. With no secret configured the payload is accepted as-is.
func (g *StripeGateway) VerifySignature(payload []byte, sigHeader string) error {
	if g.webhookSecret == "" {
		return nil
	}
	_, err := webhook.ConstructEventWithOptions(payload, sigHeader, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	return err
}

func wrapGatewayErr(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrGatewayTimeout
	}
	return err
}
