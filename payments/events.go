package payments

import (
	"encoding/json"
	"fmt"
)

// Webhook event types the ingestion path understands. Anything else parses
// to UnknownEvent and is acknowledged without side effects so the gateway
// does not retry-storm us over event types we never consume.
const (
	EventPaymentSucceeded        = "payment_intent.succeeded"
	EventPaymentFailed           = "payment_intent.payment_failed"
	EventRefundSucceeded         = "refund.succeeded"
	EventRefundFailed            = "refund.failed"
	EventDisputeCreated          = "charge.dispute.created"
	EventInvoicePaymentSucceeded = "invoice.payment_succeeded"
	EventInvoicePaymentFailed    = "invoice.payment_failed"
)

// GatewayEvent is the tagged union of known gateway notifications.
type GatewayEvent interface {
	gatewayEvent()
}

type PaymentSucceededEvent struct {
	IntentID              string
	Amount                float64
	Currency              string
	BookingReference      string
	UserID                string
	SubscriptionBillingID string
}

type PaymentFailedEvent struct {
	IntentID              string
	Reason                string
	BookingReference      string
	UserID                string
	SubscriptionBillingID string
}

type RefundSucceededEvent struct {
	RefundID string
	IntentID string
	Amount   float64
	Currency string
}

type RefundFailedEvent struct {
	RefundID string
	IntentID string
	Reason   string
}

type DisputeCreatedEvent struct {
	RefundID string
	Reason   string
}

type InvoicePaidEvent struct {
	TransactionID string
	Amount        float64
	Currency      string
}

type InvoiceFailedEvent struct {
	TransactionID string
	Reason        string
}

type UnknownEvent struct {
	Type string
}

func (PaymentSucceededEvent) gatewayEvent() {}
func (PaymentFailedEvent) gatewayEvent()    {}
func (RefundSucceededEvent) gatewayEvent()  {}
func (RefundFailedEvent) gatewayEvent()     {}
func (DisputeCreatedEvent) gatewayEvent()   {}
func (InvoicePaidEvent) gatewayEvent()      {}
func (InvoiceFailedEvent) gatewayEvent()    {}
func (UnknownEvent) gatewayEvent()          {}

type eventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object eventObject `json:"object"`
	} `json:"data"`
}

type eventObject struct {
	ID            string            `json:"id"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	PaymentIntent string            `json:"payment_intent"`
	FailureReason string            `json:"failure_reason"`
	Reason        string            `json:"reason"`
	Metadata      map[string]string `json:"metadata"`
}

// ParseEvent decodes a raw webhook body into the event union. A body that is
// not valid JSON or carries no event type is malformed; an event type we do
// not recognise is not an error.
func ParseEvent(body []byte) (GatewayEvent, error) {
	var env eventEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("malformed webhook payload: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("webhook payload missing event type")
	}

	obj := env.Data.Object
	amount := float64(obj.Amount) / 100

	switch env.Type {
	case EventPaymentSucceeded:
		return PaymentSucceededEvent{
			IntentID:              obj.ID,
			Amount:                amount,
			Currency:              obj.Currency,
			BookingReference:      obj.Metadata["booking_reference"],
			UserID:                obj.Metadata["user_id"],
			SubscriptionBillingID: obj.Metadata["subscription_billing_id"],
		}, nil
	case EventPaymentFailed:
		return PaymentFailedEvent{
			IntentID:              obj.ID,
			Reason:                obj.FailureReason,
			BookingReference:      obj.Metadata["booking_reference"],
			UserID:                obj.Metadata["user_id"],
			SubscriptionBillingID: obj.Metadata["subscription_billing_id"],
		}, nil
	case EventRefundSucceeded:
		return RefundSucceededEvent{
			RefundID: obj.ID,
			IntentID: obj.PaymentIntent,
			Amount:   amount,
			Currency: obj.Currency,
		}, nil
	case EventRefundFailed:
		reason := obj.FailureReason
		if reason == "" {
			reason = obj.Reason
		}
		return RefundFailedEvent{
			RefundID: obj.ID,
			IntentID: obj.PaymentIntent,
			Reason:   reason,
		}, nil
	case EventDisputeCreated:
		return DisputeCreatedEvent{
			RefundID: obj.ID,
			Reason:   obj.Reason,
		}, nil
	case EventInvoicePaymentSucceeded:
		txnID := obj.PaymentIntent
		if txnID == "" {
			txnID = obj.ID
		}
		return InvoicePaidEvent{
			TransactionID: txnID,
			Amount:        amount,
			Currency:      obj.Currency,
		}, nil
	case EventInvoicePaymentFailed:
		txnID := obj.PaymentIntent
		if txnID == "" {
			txnID = obj.ID
		}
		return InvoiceFailedEvent{
			TransactionID: txnID,
			Reason:        obj.FailureReason,
		}, nil
	default:
		return UnknownEvent{Type: env.Type}, nil
	}
}
