package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	env := NewEnvelope(OrderPlaced, map[string]any{"tokenNumber": 4})
	assert.Equal(t, "order.placed", env.Pattern)
	assert.Len(t, env.ID, 36)
	assert.False(t, env.OccurredAt.IsZero())

	body, err := json.Marshal(env)
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, json.Unmarshal(body, &back))
	assert.Equal(t, "order.placed", back["pattern"])
	assert.Equal(t, float64(4), back["data"].(map[string]any)["tokenNumber"])
}

func TestPublish_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &Publisher{exchange: "orders"}
	assert.ErrorIs(t, p.Publish(ctx, OrderPlaced, nil), context.Canceled)
}

func TestNopPublisher(t *testing.T) {
	var p PublisherInterface = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), OrderPlaced, nil))
}
