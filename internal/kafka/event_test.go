package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Domenick1991/villasync/internal/domain"
	"github.com/stretchr/testify/assert"
)

func storedEvent(version interface{}) domain.SyncEvent {
	return domain.SyncEvent{
		ID:          "evt-1",
		Type:        domain.SyncEventBookingApproved,
		EntityID:    "b1",
		EntityType:  "booking",
		TriggeredBy: "admin1",
		Platform:    "all",
		Changes: map[string]interface{}{
			"status":      "approved",
			"syncVersion": version,
		},
		Timestamp: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewBookingSyncEvent_LiftsStatusAndVersion(t *testing.T) {
	payload := NewBookingSyncEvent(storedEvent(int64(4)))

	assert.Equal(t, domain.SyncEventBookingApproved, payload.Type)
	assert.Equal(t, "b1", payload.BookingID)
	assert.Equal(t, "approved", payload.Status)
	assert.Equal(t, int64(4), payload.SyncVersion)
}

func TestNewBookingSyncEvent_AfterJSONRoundTrip(t *testing.T) {
	// a row read back from the jsonb column carries numbers as float64
	stored := storedEvent(int64(4))
	data, err := json.Marshal(stored.Changes)
	assert.NoError(t, err)

	stored.Changes = nil
	assert.NoError(t, json.Unmarshal(data, &stored.Changes))

	payload := NewBookingSyncEvent(stored)

	assert.Equal(t, "approved", payload.Status)
	assert.Equal(t, int64(4), payload.SyncVersion)
}

func TestDecodeSyncEvent(t *testing.T) {
	original := NewBookingSyncEvent(storedEvent(int64(7)))
	data, err := json.Marshal(original)
	assert.NoError(t, err)

	decoded, err := decodeSyncEvent(data)

	assert.NoError(t, err)
	assert.Equal(t, original.Type, decoded.Type)
	assert.Equal(t, original.BookingID, decoded.BookingID)
	assert.Equal(t, original.Status, decoded.Status)
	assert.Equal(t, original.SyncVersion, decoded.SyncVersion)
}

func TestDecodeSyncEvent_InvalidPayload(t *testing.T) {
	_, err := decodeSyncEvent([]byte("not json"))
	assert.Error(t, err)
}

func TestProducer_CheckConnection_NoBrokers(t *testing.T) {
	producer := NewProducer(nil)

	err := producer.CheckConnection(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no kafka brokers configured")
}
