// Package payroll runs the periodic store payroll.
package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/amirasaad/marketsim/pkg/domain/account"
	"github.com/amirasaad/marketsim/pkg/domain/events"
	"github.com/amirasaad/marketsim/pkg/domain/store"
	"github.com/amirasaad/marketsim/pkg/eventbus"
)

// ErrNilStore is returned when Pay is called without a store.
var ErrNilStore = errors.New("nil store")

// Outcome is the business result of a payroll attempt.
type Outcome int

const (
	Paid Outcome = iota
	InsufficientFunds
	// AlreadySettled means this store's payroll for the cycle was handled by an earlier call.
	AlreadySettled
)

func (o Outcome) String() string {
	switch o {
	case Paid:
		return "paid"
	case InsufficientFunds:
		return "insufficient_funds"
	case AlreadySettled:
		return "already_settled"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Stats counts settled payrolls since the service was created.
type Stats struct {
	Paid   uint64
	Failed uint64
}

// Service pays store payrolls at most once per store and cycle.
type Service struct {
	tracker *IdempotencyTracker
	bus     eventbus.Bus
	logger  *slog.Logger

	paid   atomic.Uint64
	failed atomic.Uint64
}

// New creates a payroll service publishing to bus.
func New(bus eventbus.Bus, logger *slog.Logger) *Service {
	return &Service{
		tracker: NewIdempotencyTracker(),
		bus:     bus,
		logger:  logger.With("service", "payroll"),
	}
}

// Pay settles the payroll of s for cycle. Concurrent or repeated calls for the
// same store and cycle settle it once; the others get AlreadySettled or share
// the in-flight result.
func (svc *Service) Pay(ctx context.Context, cycle uint64, s *store.Store) (Outcome, error) {
	if s == nil {
		return InsufficientFunds, ErrNilStore
	}
	if svc.tracker.Settled(s.Name, cycle) {
		return AlreadySettled, nil
	}

	flightKey := s.Name + ":" + strconv.FormatUint(cycle, 10)
	v, err := svc.tracker.Do(flightKey, func() (any, error) {
		if svc.tracker.Settled(s.Name, cycle) {
			return AlreadySettled, nil
		}
		outcome, err := svc.settle(ctx, cycle, s)
		if err != nil {
			return outcome, err
		}
		svc.tracker.Store(s.Name, cycle)
		return outcome, nil
	})
	if err != nil {
		return InsufficientFunds, err
	}
	return v.(Outcome), nil
}

func (svc *Service) settle(ctx context.Context, cycle uint64, s *store.Store) (Outcome, error) {
	amount := s.Payroll()
	log := svc.logger.With("store", s.Name, "cycle", cycle, "amount", amount.String())

	err := s.PayPayroll()
	switch {
	case err == nil:
		svc.paid.Add(1)
		remaining := s.Balance()
		log.Info("payroll paid", "remaining", remaining.String())
		svc.emit(ctx, log, events.NewPayrollPaid(s.Name, cycle, amount,
			events.WithPayrollEmployees(s.Employees),
			events.WithPayrollRemaining(remaining),
		))
		return Paid, nil
	case errors.Is(err, account.ErrInsufficientFunds):
		svc.failed.Add(1)
		balance := s.Balance()
		log.Warn("insufficient funds for payroll", "balance", balance.String())
		svc.emit(ctx, log, events.NewPayrollFailed(s.Name, cycle, amount,
			events.WithPayrollBalance(balance),
			events.WithPayrollReason(account.ErrInsufficientFunds.Error()),
		))
		return InsufficientFunds, nil
	default:
		return InsufficientFunds, err
	}
}

func (svc *Service) emit(ctx context.Context, log *slog.Logger, e events.Event) {
	if err := svc.bus.Emit(ctx, e); err != nil {
		log.Warn("failed to emit payroll event", "type", e.Type(), "error", err)
	}
}

// Stats returns a snapshot of the payroll counters.
func (svc *Service) Stats() Stats {
	return Stats{Paid: svc.paid.Load(), Failed: svc.failed.Load()}
}
