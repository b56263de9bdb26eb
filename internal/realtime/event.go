package realtime

import (
	"time"

	"funko-catalog-api/internal/models"
)

// EventType identifies the mutation an Event describes.
type EventType string

const (
	EventCreated EventType = "funko_created"
	EventUpdated EventType = "funko_updated"
	EventDeleted EventType = "funko_deleted"
)

// Event is a completed state change on a single funko.
type Event struct {
	Type       EventType    `json:"type"`
	FunkoID    string       `json:"funkoId"`
	Funko      models.Funko `json:"funko"`
	OccurredAt time.Time    `json:"occurredAt"`
	Version    int          `json:"version"`
}

// NewEvent builds an event for f stamped with the current time.
func NewEvent(t EventType, f models.Funko) Event {
	return Event{
		Type:       t,
		FunkoID:    f.ID,
		Funko:      f,
		OccurredAt: time.Now().UTC(),
		Version:    1,
	}
}
