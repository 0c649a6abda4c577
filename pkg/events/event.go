package events

import "time"

// Event is the shape of everything published to the event stream: auth
// events, admin audit events, and whatever external consumers subscribe to.
type Event interface {
	// EventType is the event's code, e.g. "USER_LOGIN".
	EventType() string

	// Payload is the event's data.
	Payload() map[string]interface{}

	// Timestamp is when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a ready-made Event for publishers that do not need a dedicated
// type per event code.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
