package kafka

import "github.com/Domenick1991/villasync/internal/domain"

// NewBookingSyncEvent rebuilds the wire payload from a stored sync_events
// row. Status and sync version are not their own columns, they travel
// inside the changes payload, so they are lifted back out here to keep
// sweep re-publishes identical to the original publish.
func NewBookingSyncEvent(e domain.SyncEvent) BookingSyncEvent {
	payload := BookingSyncEvent{
		Type:        e.Type,
		BookingID:   e.EntityID,
		EntityType:  e.EntityType,
		TriggeredBy: e.TriggeredBy,
		Platform:    e.Platform,
		Changes:     e.Changes,
		Timestamp:   e.Timestamp,
	}

	if status, ok := e.Changes["status"].(string); ok {
		payload.Status = status
	}
	// int64 when the event was built in-process, float64 after a JSONB round trip
	switch v := e.Changes["syncVersion"].(type) {
	case int64:
		payload.SyncVersion = v
	case float64:
		payload.SyncVersion = int64(v)
	}
	return payload
}
