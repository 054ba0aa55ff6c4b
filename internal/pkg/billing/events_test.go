package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaymentEventCheckoutSession(t *testing.T) {
	raw := []byte(`{
		"id": "evt_ck1",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_1",
			"mode": "subscription",
			"customer": "cus_9",
			"subscription": "sub_42",
			"metadata": {"property_id": "7", "host_id": "3"}
		}}
	}`)

	evt, err := ParsePaymentEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "evt_ck1", evt.ID)
	assert.Equal(t, EventCheckoutSessionCompleted, evt.Type)
	assert.Equal(t, CheckoutModeSubscription, evt.Mode)
	assert.Equal(t, "cus_9", evt.CustomerID)
	assert.Equal(t, "sub_42", evt.SubscriptionID)
	assert.Equal(t, uint(7), evt.PropertyID)
	assert.Equal(t, uint(3), evt.HostID)
}

func TestParsePaymentEventSubscriptionUpdated(t *testing.T) {
	trialEnd := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	raw := []byte(`{
		"id": "evt_su1",
		"type": "customer.subscription.updated",
		"data": {"object": {
			"id": "sub_42",
			"customer": "cus_9",
			"status": "trialing",
			"cancel_at_period_end": false,
			"trial_end": 1780272000
		}}
	}`)

	evt, err := ParsePaymentEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "sub_42", evt.SubscriptionID)
	assert.Equal(t, ProviderStatusTrialing, evt.ProviderStatus)
	require.NotNil(t, evt.TrialEnd)
	assert.Equal(t, trialEnd, *evt.TrialEnd)
}

func TestParsePaymentEventInvoice(t *testing.T) {
	raw := []byte(`{
		"id": "evt_inv1",
		"type": "invoice.payment_failed",
		"data": {"object": {"id": "in_1", "customer": "cus_9", "subscription": "sub_42"}}
	}`)

	evt, err := ParsePaymentEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "sub_42", evt.SubscriptionID)
	assert.Equal(t, "cus_9", evt.CustomerID)
}

func TestParsePaymentEventMissingMetadataYieldsZeroIDs(t *testing.T) {
	raw := []byte(`{
		"id": "evt_ck2",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_2", "mode": "subscription"}}
	}`)

	evt, err := ParsePaymentEvent(raw)
	require.NoError(t, err)
	assert.Zero(t, evt.PropertyID)
	assert.Zero(t, evt.HostID)
}

func TestParsePaymentEventUnknownTypeParses(t *testing.T) {
	raw := []byte(`{"id": "evt_x", "type": "charge.refunded", "data": {"object": {"id": "ch_1"}}}`)
	evt, err := ParsePaymentEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "charge.refunded", evt.Type)
}

func TestParsePaymentEventBadEnvelope(t *testing.T) {
	_, err := ParsePaymentEvent([]byte(`{not json`))
	assert.Error(t, err)
}
