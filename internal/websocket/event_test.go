package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_CombinedType(t *testing.T) {
	tests := []struct {
		name      string
		eventType EventType
		entity    EntityType
		expected  string
	}{
		{"category created", EventTypeCreated, EntityTypeCategory, "category.created"},
		{"category updated", EventTypeUpdated, EntityTypeCategory, "category.updated"},
		{"transaction created", EventTypeCreated, EntityTypeTransaction, "transaction.created"},
		{"transaction deleted", EventTypeDeleted, EntityTypeTransaction, "transaction.deleted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := NewEvent(tt.eventType, tt.entity, nil)
			assert.Equal(t, tt.expected, event.Type)
			assert.Equal(t, tt.entity, event.Entity)
		})
	}
}

func TestNewEvent_Timestamp(t *testing.T) {
	before := time.Now().UTC()
	event := NewEvent(EventTypeCreated, EntityTypeTransaction, nil)
	after := time.Now().UTC()

	assert.False(t, event.Timestamp.Before(before))
	assert.False(t, event.Timestamp.After(after))
}

func TestEvent_ToJSON(t *testing.T) {
	payload := map[string]interface{}{
		"id":    "abc",
		"title": "Weekly shop",
	}
	event := NewEvent(EventTypeCreated, EntityTypeTransaction, payload)

	data, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "transaction.created", decoded["type"])
	assert.Equal(t, "transaction", decoded["entity"])
	assert.NotEmpty(t, decoded["timestamp"])

	decodedPayload := decoded["payload"].(map[string]interface{})
	assert.Equal(t, "Weekly shop", decodedPayload["title"])
}
