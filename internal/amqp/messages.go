package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType names something that happened in the client.
type EventType string

const (
	EventSessionStarted     EventType = "session.started"
	EventSessionEnded       EventType = "session.ended"
	EventDebtCreated        EventType = "debt.created"
	EventDebtStatusChanged  EventType = "debt.status_changed"
	EventDebtDeleted        EventType = "debt.deleted"
	EventIncomeCreated      EventType = "income.created"
	EventIncomeDeleted      EventType = "income.deleted"
	EventTransactionCreated EventType = "transaction.created"
	EventDashboardExported  EventType = "dashboard.exported"
)

// Event is a small notification; consumers fetch details from the gateway.
type Event struct {
	Type       EventType         `json:"type"`
	UserID     int64             `json:"user_id"`
	ResourceID int64             `json:"resource_id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NewEvent stamps an event with the current time.
func NewEvent(typ EventType, userID, resourceID int64) *Event {
	return &Event{
		Type:       typ,
		UserID:     userID,
		ResourceID: resourceID,
		Timestamp:  time.Now().UTC(),
	}
}

// With sets an attribute and returns the event.
func (e *Event) With(key, value string) *Event {
	if e.Attributes == nil {
		e.Attributes = make(map[string]string)
	}
	e.Attributes[key] = value
	return e
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if e.Type == "" {
		return nil, fmt.Errorf("event without type")
	}
	return &e, nil
}

// RoutingKey is "<prefix>.<type>", e.g. "buget.events.debt.created".
func RoutingKey(prefix string, typ EventType) string {
	if prefix == "" {
		return string(typ)
	}
	return prefix + "." + string(typ)
}
