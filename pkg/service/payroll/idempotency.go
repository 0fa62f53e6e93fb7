package payroll

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// IdempotencyTracker remembers the last settled cycle per key and makes sure
// only one goroutine settles a given (key, cycle) at a time.
type IdempotencyTracker struct {
	processed sync.Map // key -> uint64, highest settled cycle
	inflight  singleflight.Group
	mu        sync.Mutex
}

// NewIdempotencyTracker creates a new idempotency tracker.
func NewIdempotencyTracker() *IdempotencyTracker {
	return &IdempotencyTracker{}
}

// Settled reports whether cycle, or a later one, was already settled for key.
func (t *IdempotencyTracker) Settled(key string, cycle uint64) bool {
	v, ok := t.processed.Load(key)
	return ok && v.(uint64) >= cycle
}

// Store marks cycle as settled for key. The watermark never moves backwards.
func (t *IdempotencyTracker) Store(key string, cycle uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := t.processed.Load(key); ok && v.(uint64) >= cycle {
		return
	}
	t.processed.Store(key, cycle)
}

// Delete forgets key.
func (t *IdempotencyTracker) Delete(key string) {
	t.processed.Delete(key)
}

// Do runs fn once for concurrent callers sharing flightKey. Callers that
// arrive while fn runs wait and receive the same result.
func (t *IdempotencyTracker) Do(flightKey string, fn func() (any, error)) (any, error) {
	v, err, _ := t.inflight.Do(flightKey, fn)
	return v, err
}
