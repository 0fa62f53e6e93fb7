package actor

import (
	"context"
	"math/rand/v2"
	"time"
)

// Rand is the source of randomness used by actors. *rand.Rand from
// math/rand/v2 satisfies it. Implementations need not be safe for concurrent
// use: every actor owns its own.
type Rand interface {
	IntN(n int) int
	Int64N(n int64) int64
}

// NewRand returns a deterministic PCG source for the given seed and stream.
func NewRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// jitter picks a delay in [0, maxDelay).
func jitter(r Rand, maxDelay time.Duration) time.Duration {
	if maxDelay <= 0 {
		return 0
	}
	return time.Duration(r.Int64N(int64(maxDelay)))
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
