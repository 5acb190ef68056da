package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewCreated struct {
	ReviewID  string `json:"review_id"`
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
}

func TestNewEvent(t *testing.T) {
	data := reviewCreated{ReviewID: "rev-1", ProductID: "item123", Rating: 5}

	event, err := NewEvent("review.created", "rev-1", "review", "review-service", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "review.created", event.EventType)
	assert.Equal(t, "rev-1", event.AggregateID)
	assert.Equal(t, "review", event.AggregateType)
	assert.Equal(t, "review-service", event.Source)
	assert.Equal(t, 1, event.Version)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEvent_RoundTrip(t *testing.T) {
	event, err := NewEvent("review.liked", "rev-2", "review", "review-service",
		reviewCreated{ReviewID: "rev-2", ProductID: "item123", Rating: 4})
	require.NoError(t, err)
	event.WithCorrelationID("corr-9")

	raw, err := event.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, "corr-9", decoded.CorrelationID)

	var payload reviewCreated
	require.NoError(t, decoded.UnmarshalData(&payload))
	assert.Equal(t, "rev-2", payload.ReviewID)
	assert.Equal(t, 4, payload.Rating)
}
