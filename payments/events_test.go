package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventPaymentSucceeded(t *testing.T) {
	body := []byte(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {
			"id": "pi_123",
			"amount": 6000,
			"currency": "gbp",
			"metadata": {"booking_reference": "VB-AB12CD34", "user_id": "u-1"}
		}}
	}`)

	evt, err := ParseEvent(body)
	require.NoError(t, err)

	paid, ok := evt.(PaymentSucceededEvent)
	require.True(t, ok)
	assert.Equal(t, "pi_123", paid.IntentID)
	assert.InDelta(t, 60.00, paid.Amount, 0.001)
	assert.Equal(t, "gbp", paid.Currency)
	assert.Equal(t, "VB-AB12CD34", paid.BookingReference)
	assert.Equal(t, "u-1", paid.UserID)
}

func TestParseEventSubscriptionChargeRouting(t *testing.T) {
	evt, err := ParseEvent([]byte(`{
		"type": "payment_intent.succeeded",
		"data": {"object": {
			"id": "pi_sub_1",
			"amount": 19900,
			"currency": "gbp",
			"metadata": {"subscription_billing_id": "9f0e8d7c-0000-1111-2222-333344445555", "fleet_id": "f-1"}
		}}
	}`))
	require.NoError(t, err)

	paid, ok := evt.(PaymentSucceededEvent)
	require.True(t, ok)
	assert.Equal(t, "9f0e8d7c-0000-1111-2222-333344445555", paid.SubscriptionBillingID)
	assert.Empty(t, paid.BookingReference)
}

func TestParseEventRefundOutcomes(t *testing.T) {
	evt, err := ParseEvent([]byte(`{
		"type": "refund.succeeded",
		"data": {"object": {"id": "re_1", "payment_intent": "pi_123", "amount": 6000, "currency": "gbp"}}
	}`))
	require.NoError(t, err)
	ok, isOK := evt.(RefundSucceededEvent)
	require.True(t, isOK)
	assert.Equal(t, "re_1", ok.RefundID)
	assert.Equal(t, "pi_123", ok.IntentID)
	assert.InDelta(t, 60.00, ok.Amount, 0.001)

	evt, err = ParseEvent([]byte(`{
		"type": "refund.failed",
		"data": {"object": {"id": "re_2", "failure_reason": "insufficient_funds"}}
	}`))
	require.NoError(t, err)
	failed, isFailed := evt.(RefundFailedEvent)
	require.True(t, isFailed)
	assert.Equal(t, "insufficient_funds", failed.Reason)
}

func TestParseEventDispute(t *testing.T) {
	evt, err := ParseEvent([]byte(`{
		"type": "charge.dispute.created",
		"data": {"object": {"id": "re_3", "reason": "fraudulent"}}
	}`))
	require.NoError(t, err)
	d, isDispute := evt.(DisputeCreatedEvent)
	require.True(t, isDispute)
	assert.Equal(t, "re_3", d.RefundID)
	assert.Equal(t, "fraudulent", d.Reason)
}

func TestParseEventUnknownType(t *testing.T) {
	evt, err := ParseEvent([]byte(`{"type": "customer.created", "data": {"object": {"id": "cus_1"}}}`))
	require.NoError(t, err)
	unknown, isUnknown := evt.(UnknownEvent)
	require.True(t, isUnknown)
	assert.Equal(t, "customer.created", unknown.Type)
}

func TestParseEventMalformed(t *testing.T) {
	_, err := ParseEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseEvent([]byte(`{"data": {"object": {"id": "pi_1"}}}`))
	assert.Error(t, err, "missing event type is malformed")
}

func TestParseEventInvoiceOutcomes(t *testing.T) {
	evt, err := ParseEvent([]byte(`{
		"type": "invoice.payment_succeeded",
		"data": {"object": {"id": "txn_9", "amount": 19900, "currency": "gbp"}}
	}`))
	require.NoError(t, err)
	paid, isPaid := evt.(InvoicePaidEvent)
	require.True(t, isPaid)
	assert.Equal(t, "txn_9", paid.TransactionID)
	assert.InDelta(t, 199.00, paid.Amount, 0.001)

	evt, err = ParseEvent([]byte(`{
		"type": "invoice.payment_failed",
		"data": {"object": {"id": "txn_10", "failure_reason": "card_declined"}}
	}`))
	require.NoError(t, err)
	failedEvt, isFailed := evt.(InvoiceFailedEvent)
	require.True(t, isFailed)
	assert.Equal(t, "card_declined", failedEvt.Reason)
}
