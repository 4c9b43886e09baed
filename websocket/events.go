package websocket

import (
	"encoding/json"
	"time"
)

// Event is a live-feed frame pushed to subscribed spectators. The
// polling GET endpoints remain the source of truth; events only hint
// that fresh state is available.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

// Event types broadcast on a session feed.
const (
	EventMessageAppended = "message.appended"
	EventLikeUpdated     = "like.updated"
	EventSessionReset    = "session.reset"
	EventStatusChanged   = "status.changed"
	EventPresence        = "presence"
)

// PresencePayload reports how many spectators are connected to a feed.
type PresencePayload struct {
	Connected int `json:"connected"`
}

// NewEvent creates a new event with timestamp
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		Type:      eventType,
		Payload:   payloadBytes,
		Timestamp: time.Now().Unix(),
	}, nil
}
