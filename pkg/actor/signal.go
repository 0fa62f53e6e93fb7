package actor

import "context"

// Signal is a single-slot wake-up notification.
//
// Notify never blocks. A notification sent while nobody waits stays pending
// until the next Wait, so wake-ups are never lost; notifications sent while one
// is already pending coalesce into it.
type Signal struct {
	ch chan struct{}
}

// NewSignal creates a signal with no pending notification.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Notify makes a notification pending. It returns false if one already was.
func (s *Signal) Notify() bool {
	select {
	case s.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// Wait blocks until a notification is pending and consumes it, or until ctx is
// done, in which case it returns ctx.Err().
func (s *Signal) Wait(ctx context.Context) error {
	select {
	case <-s.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending reports whether a notification is waiting to be consumed.
func (s *Signal) Pending() bool {
	return len(s.ch) > 0
}
