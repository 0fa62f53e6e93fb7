package actor_test

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/marketsim/pkg/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignal_NotifyBeforeWaitIsNotLost(t *testing.T) {
	t.Parallel()
	s := actor.NewSignal()

	assert.True(t, s.Notify())
	assert.True(t, s.Pending())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
	assert.False(t, s.Pending())
}

func TestSignal_Coalesces(t *testing.T) {
	t.Parallel()
	s := actor.NewSignal()

	assert.True(t, s.Notify())
	assert.False(t, s.Notify())
	assert.False(t, s.Notify())

	require.NoError(t, s.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Wait(ctx), context.DeadlineExceeded)
}

func TestSignal_WaitCancelled(t *testing.T) {
	t.Parallel()
	s := actor.NewSignal()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Wait(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after cancellation")
	}
}

func TestSignal_WakesWaiter(t *testing.T) {
	t.Parallel()
	s := actor.NewSignal()

	done := make(chan error, 1)
	go func() { done <- s.Wait(context.Background()) }()

	time.Sleep(10 * time.Millisecond)
	s.Notify()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken")
	}
}
