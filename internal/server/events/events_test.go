package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unmarshal(b []byte, out any) error { return json.Unmarshal(b, out) }

func TestNewEnvelope(t *testing.T) {
	env, err := NewEnvelope(EventCheckoutSessionCreated, "storefront", "p1",
		CheckoutSessionCreatedPayload{SessionID: "cs_1", ProductID: "p1", UnitAmount: 2000, Currency: "usd"})
	require.NoError(t, err)

	assert.Equal(t, EventCheckoutSessionCreated, env.EventType)
	assert.False(t, env.OccurredAt.IsZero())

	p, err := UnwrapPayload[CheckoutSessionCreatedPayload](env.Payload)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), p.UnitAmount)
	assert.NotContains(t, string(env.Payload), "sk_")
}

func TestUnwrapPayload_Invalid(t *testing.T) {
	_, err := UnwrapPayload[StoreUpdatedPayload](json.RawMessage(`{"store_id":`))
	assert.Error(t, err)
}
