package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EventChangeType string

const (
	EventChangeCreated EventChangeType = "created"
	EventChangeDeleted EventChangeType = "deleted"
)

// EventChangeDto is the message published when an event row is created or deleted.
// Event is nil for deletions.
type EventChangeDto struct {
	MessageID  uuid.UUID       `json:"message_id"`
	Type       EventChangeType `json:"type"`
	EventID    int64           `json:"event_id"`
	Event      *Event          `json:"event,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func NewEventChangeDto(changeType EventChangeType, eventID int64, event *Event) (EventChangeDto, error) {
	if eventID <= 0 {
		return EventChangeDto{}, fmt.Errorf("invalid event id %d", eventID)
	}
	if changeType == EventChangeCreated && event == nil {
		return EventChangeDto{}, fmt.Errorf("created change for event %d has no payload", eventID)
	}

	return EventChangeDto{
		MessageID:  uuid.New(),
		Type:       changeType,
		EventID:    eventID,
		Event:      event,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// Key partitions messages for the same event together.
func (d EventChangeDto) Key() string {
	return fmt.Sprintf("event:%d", d.EventID)
}
