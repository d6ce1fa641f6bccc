package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeStateChanged = "budget.state_changed"
	EventTypeStateLoaded  = "budget.state_loaded"
)

// NewStateChangedEvent describes a persisted mutation. op is the store
// operation name, month the ledger month after the change.
func NewStateChangedEvent(op, month string, data map[string]interface{}) BaseEvent {
	payload := map[string]interface{}{
		"operation": op,
		"month":     month,
	}
	for k, v := range data {
		payload[k] = v
	}
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeStateChanged,
		Timestamp: time.Now(),
		Data:      payload,
	}
}

// NewStateLoadedEvent is emitted once the store has resolved its initial
// state. source is one of "default", "snapshot", "rollover" or "recovered".
func NewStateLoadedEvent(source, month string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeStateLoaded,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"source": source,
			"month":  month,
		},
	}
}
