package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is implemented by everything published on the event bus.
type Event interface {
	Type() string
}

// Meta carries the fields shared by every event.
type Meta struct {
	ID        uuid.UUID
	Timestamp time.Time
}

// NewMeta stamps a new event with a fresh ID and the current time.
func NewMeta() Meta {
	return Meta{ID: uuid.New(), Timestamp: time.Now()}
}
