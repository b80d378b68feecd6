package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebhookApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/v1/payments/webhook", HandleGatewayWebhook)
	return app
}

func postWebhook(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/payments/webhook", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestWebhookMalformedPayloadRejected(t *testing.T) {
	app := newWebhookApp()

	assert.Equal(t, fiber.StatusBadRequest, postWebhook(t, app, `not json at all`))
	assert.Equal(t, fiber.StatusBadRequest, postWebhook(t, app, `{"data": {}}`))
}

func TestWebhookUnknownEventTypeAcknowledged(t *testing.T) {
	app := newWebhookApp()

	// unrecognised event types must always get a 200 so the gateway does
	// not keep redelivering them
	status := postWebhook(t, app, `{"type": "customer.updated", "data": {"object": {"id": "cus_1"}}}`)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestWebhookPaymentEventWithoutUserMetadataRejected(t *testing.T) {
	app := newWebhookApp()

	status := postWebhook(t, app, `{
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_1", "amount": 6000, "currency": "gbp", "metadata": {}}}
	}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestWebhookPaymentEventWithoutIntentRejected(t *testing.T) {
	app := newWebhookApp()

	status := postWebhook(t, app, `{
		"type": "payment_intent.succeeded",
		"data": {"object": {"amount": 6000, "currency": "gbp", "metadata": {"user_id": "3b2c4a44-1111-2222-3333-444455556666"}}}
	}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}
