package eventbus

import (
	"context"

	"github.com/amirasaad/marketsim/pkg/domain/events"
)

// AllEvents registers a handler for every event type.
const AllEvents = "*"

// HandlerFunc processes a single event.
type HandlerFunc func(ctx context.Context, e events.Event) error

// Bus defines the contract for publishing and subscribing to domain events.
//
// Emit must never block the caller on handler execution for long: actors emit
// events from their hot loops.
type Bus interface {
	Register(eventType string, handler HandlerFunc)
	Emit(ctx context.Context, event events.Event) error
}
