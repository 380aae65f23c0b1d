package realtime

// EventType tags the payload carried by an Event.
type EventType string

const EventMessageCreated EventType = "message.created"

// Event is what listeners receive.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

func MessageCreated(data any) Event {
	return Event{Type: EventMessageCreated, Data: data}
}
