package payroll_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	infraeventbus "github.com/amirasaad/marketsim/infra/eventbus"
	"github.com/amirasaad/marketsim/pkg/domain/account"
	"github.com/amirasaad/marketsim/pkg/domain/events"
	"github.com/amirasaad/marketsim/pkg/domain/store"
	"github.com/amirasaad/marketsim/pkg/money"
	"github.com/amirasaad/marketsim/pkg/service/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, balance money.Money) (*payroll.Service, *infraeventbus.MemoryEventBus, *store.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := infraeventbus.NewWithMemory(logger)
	acc := account.New().WithOwner("Loja1").WithKind(account.KindStore).WithBalance(balance).MustBuild()
	s, err := store.New("Loja1", acc, money.New(1400), 2)
	require.NoError(t, err)
	return payroll.New(bus, logger), bus, s
}

func TestPay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("exact balance is paid", func(t *testing.T) {
		t.Parallel()
		svc, bus, s := setup(t, money.New(2800))

		outcome, err := svc.Pay(ctx, 1, s)
		require.NoError(t, err)
		assert.Equal(t, payroll.Paid, outcome)
		assert.True(t, s.Balance().IsZero())

		paid := bus.PublishedOfType(events.EventTypePayrollPaid)
		require.Len(t, paid, 1)
		e := paid[0].(*events.PayrollPaid)
		assert.Equal(t, "Loja1", e.Store)
		assert.Equal(t, uint64(1), e.Cycle)
		assert.Equal(t, 2, e.Employees)
		assert.True(t, e.Amount.Equals(money.New(2800)))
		assert.Equal(t, payroll.Stats{Paid: 1}, svc.Stats())
	})

	t.Run("one unit short is refused", func(t *testing.T) {
		t.Parallel()
		svc, bus, s := setup(t, money.New(2799))

		outcome, err := svc.Pay(ctx, 1, s)
		require.NoError(t, err)
		assert.Equal(t, payroll.InsufficientFunds, outcome)
		assert.True(t, s.Balance().Equals(money.New(2799)))

		failed := bus.PublishedOfType(events.EventTypePayrollFailed)
		require.Len(t, failed, 1)
		assert.True(t, failed[0].(*events.PayrollFailed).Balance.Equals(money.New(2799)))
		assert.Equal(t, payroll.Stats{Failed: 1}, svc.Stats())
	})

	t.Run("nil store", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := setup(t, money.Zero)
		_, err := svc.Pay(ctx, 1, nil)
		assert.ErrorIs(t, err, payroll.ErrNilStore)
	})
}

func TestPay_OncePerCycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, bus, s := setup(t, money.New(2800*10))

	outcome, err := svc.Pay(ctx, 1, s)
	require.NoError(t, err)
	assert.Equal(t, payroll.Paid, outcome)

	outcome, err = svc.Pay(ctx, 1, s)
	require.NoError(t, err)
	assert.Equal(t, payroll.AlreadySettled, outcome)

	outcome, err = svc.Pay(ctx, 2, s)
	require.NoError(t, err)
	assert.Equal(t, payroll.Paid, outcome)

	// A stale cycle is never paid after a newer one.
	outcome, err = svc.Pay(ctx, 1, s)
	require.NoError(t, err)
	assert.Equal(t, payroll.AlreadySettled, outcome)

	assert.True(t, s.Balance().Equals(money.New(2800*8)))
	assert.Len(t, bus.PublishedOfType(events.EventTypePayrollPaid), 2)
}

func TestPay_ConcurrentCallsDoNotDoublePay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, bus, s := setup(t, money.New(2800*10))

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := svc.Pay(ctx, 7, s)
			assert.NoError(t, err)
			assert.Contains(t, []payroll.Outcome{payroll.Paid, payroll.AlreadySettled}, outcome)
		}()
	}
	wg.Wait()

	assert.True(t, s.Balance().Equals(money.New(2800*9)), "balance %s", s.Balance())
	assert.Len(t, bus.PublishedOfType(events.EventTypePayrollPaid), 1)
	assert.Equal(t, payroll.Stats{Paid: 1}, svc.Stats())
}

func TestIdempotencyTracker(t *testing.T) {
	t.Parallel()
	tracker := payroll.NewIdempotencyTracker()

	assert.False(t, tracker.Settled("Loja1", 1))
	tracker.Store("Loja1", 3)
	assert.True(t, tracker.Settled("Loja1", 1))
	assert.True(t, tracker.Settled("Loja1", 3))
	assert.False(t, tracker.Settled("Loja1", 4))

	tracker.Store("Loja1", 2)
	assert.True(t, tracker.Settled("Loja1", 3), "watermark must not move backwards")

	tracker.Delete("Loja1")
	assert.False(t, tracker.Settled("Loja1", 1))

	v, err := tracker.Do("k", func() (any, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "paid", payroll.Paid.String())
	assert.Equal(t, "insufficient_funds", payroll.InsufficientFunds.String())
	assert.Equal(t, "already_settled", payroll.AlreadySettled.String())
}
