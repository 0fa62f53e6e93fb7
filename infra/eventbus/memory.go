package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/amirasaad/marketsim/pkg/domain/events"
	"github.com/amirasaad/marketsim/pkg/eventbus"
)

// ErrBusClosed is returned by Emit after Close.
var ErrBusClosed = errors.New("event bus closed")

// handlerRegistry is shared by both memory buses.
type handlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]eventbus.HandlerFunc
}

func newHandlerRegistry() handlerRegistry {
	return handlerRegistry{handlers: make(map[string][]eventbus.HandlerFunc)}
}

// register adds handler for eventType. A name that is neither a known event
// type nor the wildcard is kept but logged, since no event will ever match it.
func (r *handlerRegistry) register(log *slog.Logger, eventType string, handler eventbus.HandlerFunc) {
	if eventType != eventbus.AllEvents && !events.Known(eventType) {
		log.Warn("handler registered for unknown event type", "type", eventType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[eventType] = append(r.handlers[eventType], handler)
}

// lookup returns a copy of the handlers for eventType plus the wildcard handlers.
func (r *handlerRegistry) lookup(eventType string) []eventbus.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]eventbus.HandlerFunc, 0, len(r.handlers[eventType])+len(r.handlers[eventbus.AllEvents]))
	out = append(out, r.handlers[eventType]...)
	return append(out, r.handlers[eventbus.AllEvents]...)
}

// MemoryEventBus is a synchronous in-memory implementation of the Bus interface.
// Handlers run on the emitting goroutine. Every event is recorded, which makes
// it the bus of choice for tests.
type MemoryEventBus struct {
	handlerRegistry
	logger *slog.Logger

	pubMu     sync.Mutex
	published []events.Event
}

// NewWithMemory creates a new synchronous in-memory event bus.
func NewWithMemory(logger *slog.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		handlerRegistry: newHandlerRegistry(),
		logger:          logger.With("bus", "memory"),
		published:       make([]events.Event, 0),
	}
}

// Register registers a handler for a specific event type.
func (b *MemoryEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.register(b.logger, eventType, handler)
}

// Emit records the event and dispatches it to all registered handlers.
func (b *MemoryEventBus) Emit(ctx context.Context, event events.Event) error {
	b.pubMu.Lock()
	b.published = append(b.published, event)
	b.pubMu.Unlock()

	for _, handler := range b.lookup(event.Type()) {
		if err := handler(ctx, event); err != nil {
			b.logger.Error("failed to process event", "type", event.Type(), "error", err)
		}
	}
	return nil
}

// Published returns a copy of every event emitted so far.
func (b *MemoryEventBus) Published() []events.Event {
	b.pubMu.Lock()
	defer b.pubMu.Unlock()
	return append([]events.Event(nil), b.published...)
}

// PublishedOfType returns the recorded events with the given type.
func (b *MemoryEventBus) PublishedOfType(eventType events.EventType) []events.Event {
	var out []events.Event
	for _, e := range b.Published() {
		if e.Type() == eventType.String() {
			out = append(out, e)
		}
	}
	return out
}

// ClearPublished clears the list of published events.
func (b *MemoryEventBus) ClearPublished() {
	b.pubMu.Lock()
	defer b.pubMu.Unlock()
	b.published = make([]events.Event, 0)
}

// Ensure MemoryEventBus implements the Bus interface.
var _ eventbus.Bus = (*MemoryEventBus)(nil)

type envelope struct {
	ctx   context.Context
	event events.Event
}

// MemoryAsyncEventBus is a buffered in-memory event bus.
//
// Emit never blocks: when the buffer is full the event is dropped and counted.
// A single dispatcher goroutine delivers events in emission order, so handlers
// never run concurrently with each other.
type MemoryAsyncEventBus struct {
	handlerRegistry
	log *slog.Logger

	mu      sync.RWMutex
	closed  bool
	eventCh chan envelope
	done    chan struct{}

	delivered atomic.Uint64
	dropped   atomic.Uint64
}

// NewWithMemoryAsync creates a buffered in-memory event bus and starts its dispatcher.
func NewWithMemoryAsync(logger *slog.Logger, buffer int) *MemoryAsyncEventBus {
	if buffer <= 0 {
		buffer = 1
	}
	b := &MemoryAsyncEventBus{
		handlerRegistry: newHandlerRegistry(),
		log:             logger.With("event-bus", "memory-async"),
		eventCh:         make(chan envelope, buffer),
		done:            make(chan struct{}),
	}
	go b.process()
	return b
}

// Register registers a handler for a specific event type.
func (b *MemoryAsyncEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.register(b.log, eventType, handler)
}

// Emit enqueues the event without blocking.
func (b *MemoryAsyncEventBus) Emit(ctx context.Context, event events.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}
	select {
	case b.eventCh <- envelope{ctx: context.WithoutCancel(ctx), event: event}:
	default:
		if n := b.dropped.Add(1); n == 1 || n%100 == 0 {
			b.log.Warn("event buffer full, dropping events", "type", event.Type(), "dropped", n)
		}
	}
	return nil
}

// Close stops accepting events, delivers everything already buffered and waits
// for the dispatcher to exit. It is safe to call more than once.
func (b *MemoryAsyncEventBus) Close() {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		close(b.eventCh)
	}
	b.mu.Unlock()
	<-b.done
}

// Delivered returns how many events reached the dispatcher.
func (b *MemoryAsyncEventBus) Delivered() uint64 { return b.delivered.Load() }

// Dropped returns how many events were discarded because the buffer was full.
func (b *MemoryAsyncEventBus) Dropped() uint64 { return b.dropped.Load() }

func (b *MemoryAsyncEventBus) process() {
	defer close(b.done)
	for w := range b.eventCh {
		b.delivered.Add(1)
		for _, handler := range b.lookup(w.event.Type()) {
			func() {
				defer func() {
					if r := recover(); r != nil {
						b.log.Error("panic recovered in event handler", "type", w.event.Type(), "panic", r)
					}
				}()
				if err := handler(w.ctx, w.event); err != nil {
					b.log.Error("failed to process event", "type", w.event.Type(), "error", err)
				}
			}()
		}
	}
}

// Ensure MemoryAsyncEventBus implements the Bus interface.
var _ eventbus.Bus = (*MemoryAsyncEventBus)(nil)
