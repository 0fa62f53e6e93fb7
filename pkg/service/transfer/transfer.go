// Package transfer moves money between accounts on behalf of the bank.
//
// A single Service is shared by every actor. Transfers are serialized by the
// service's own lock in addition to the per-account locks, so a debit and its
// matching credit appear atomic to every other transfer.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/amirasaad/marketsim/pkg/domain/account"
	"github.com/amirasaad/marketsim/pkg/domain/events"
	"github.com/amirasaad/marketsim/pkg/eventbus"
	"github.com/amirasaad/marketsim/pkg/money"
)

var (
	// ErrNilAccount is returned when a nil account is provided to a transfer.
	ErrNilAccount = errors.New("nil account")

	// ErrCannotTransferToSameAccount is returned when source and destination are the same account.
	ErrCannotTransferToSameAccount = errors.New("cannot transfer to same account")

	// ErrTransactionAmountMustBePositive is returned when a transfer amount is not positive.
	ErrTransactionAmountMustBePositive = errors.New("transaction amount must be positive")
)

// Outcome is the business result of a transfer.
type Outcome int

const (
	Success Outcome = iota
	InsufficientFunds
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case InsufficientFunds:
		return "insufficient_funds"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Stats counts transfer outcomes since the service was created.
type Stats struct {
	Completed uint64
	Failed    uint64
}

// Service executes transfers.
type Service struct {
	mu     sync.Mutex
	bus    eventbus.Bus
	logger *slog.Logger

	completed atomic.Uint64
	failed    atomic.Uint64
}

// New creates a transfer service publishing to bus.
func New(bus eventbus.Bus, logger *slog.Logger) *Service {
	return &Service{
		bus:    bus,
		logger: logger.With("service", "transfer"),
	}
}

// Transfer debits source and credits destination by amount.
//
// Insufficient funds is a normal outcome, reported as InsufficientFunds with a
// nil error and no balance touched. An error is returned only for malformed
// requests.
func (s *Service) Transfer(
	ctx context.Context,
	source, destination *account.Account,
	amount money.Money,
) (Outcome, error) {
	if source == nil || destination == nil {
		return InsufficientFunds, ErrNilAccount
	}
	if source == destination || source.ID == destination.ID {
		return InsufficientFunds, ErrCannotTransferToSameAccount
	}
	if !amount.IsPositive() {
		return InsufficientFunds, ErrTransactionAmountMustBePositive
	}

	outcome, err := s.move(source, destination, amount)
	if err != nil {
		return outcome, err
	}

	log := s.logger.With("from", source.Owner, "to", destination.Owner, "amount", amount.String())
	var event events.Event
	if outcome == Success {
		s.completed.Add(1)
		log.Debug("transfer completed")
		event = events.NewTransferCompleted(source.Owner, destination.Owner, amount)
	} else {
		s.failed.Add(1)
		log.Debug("transfer refused", "reason", account.ErrInsufficientFunds)
		event = events.NewTransferFailed(source.Owner, destination.Owner, amount, account.ErrInsufficientFunds.Error())
	}
	if err := s.bus.Emit(ctx, event); err != nil {
		log.Warn("failed to emit transfer event", "error", err)
	}
	return outcome, nil
}

// move is the critical section. No event is emitted while the lock is held.
func (s *Service) move(source, destination *account.Account, amount money.Money) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := source.Debit(amount); err != nil {
		if errors.Is(err, account.ErrInsufficientFunds) {
			return InsufficientFunds, nil
		}
		return InsufficientFunds, fmt.Errorf("debit %s: %w", source, err)
	}
	if err := destination.Credit(amount); err != nil {
		// Put the money back so nothing is left in flight.
		if rbErr := source.Credit(amount); rbErr != nil {
			return InsufficientFunds, errors.Join(fmt.Errorf("credit %s: %w", destination, err), rbErr)
		}
		return InsufficientFunds, fmt.Errorf("credit %s: %w", destination, err)
	}
	return Success, nil
}

// Stats returns a snapshot of the outcome counters.
func (s *Service) Stats() Stats {
	return Stats{Completed: s.completed.Load(), Failed: s.failed.Load()}
}
