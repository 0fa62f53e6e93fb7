package actor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/amirasaad/marketsim/pkg/domain/account"
	"github.com/amirasaad/marketsim/pkg/domain/events"
	"github.com/amirasaad/marketsim/pkg/domain/store"
	"github.com/amirasaad/marketsim/pkg/eventbus"
	"github.com/amirasaad/marketsim/pkg/money"
	"github.com/amirasaad/marketsim/pkg/service/transfer"
)

var (
	// ErrNoStores is returned when a client has nowhere to shop.
	ErrNoStores = errors.New("client needs at least one store")

	// ErrNoPurchaseAmounts is returned when a client has no purchase amounts.
	ErrNoPurchaseAmounts = errors.New("client needs at least one positive purchase amount")

	// ErrNilRand is returned when a client is built without a random source.
	ErrNilRand = errors.New("client needs a random source")
)

// Transferer moves money between two accounts. *transfer.Service implements it.
type Transferer interface {
	Transfer(ctx context.Context, source, destination *account.Account, amount money.Money) (transfer.Outcome, error)
}

// ClientConfig describes one client.
type ClientConfig struct {
	Name     string
	Account  *account.Account
	Stores   []*store.Store
	Amounts  []money.Money
	MaxDelay time.Duration
	Rand     Rand
}

// Client buys from random stores while it has money.
type Client struct {
	name     string
	acc      *account.Account
	stores   []*store.Store
	amounts  []money.Money
	cheapest money.Money
	maxDelay time.Duration
	rand     Rand

	bank   Transferer
	bus    eventbus.Bus
	logger *slog.Logger

	purchases atomic.Int64
	rejected  atomic.Int64
}

// NewClient validates cfg and creates a client.
func NewClient(cfg ClientConfig, bank Transferer, bus eventbus.Bus, logger *slog.Logger) (*Client, error) {
	if cfg.Account == nil {
		return nil, fmt.Errorf("client %s: %w", cfg.Name, ErrMissingAccount)
	}
	if len(cfg.Stores) == 0 {
		return nil, fmt.Errorf("client %s: %w", cfg.Name, ErrNoStores)
	}
	if len(cfg.Amounts) == 0 {
		return nil, fmt.Errorf("client %s: %w", cfg.Name, ErrNoPurchaseAmounts)
	}
	for _, a := range cfg.Amounts {
		if !a.IsPositive() {
			return nil, fmt.Errorf("client %s: %w: %s", cfg.Name, ErrNoPurchaseAmounts, a)
		}
	}
	if cfg.Rand == nil {
		return nil, fmt.Errorf("client %s: %w", cfg.Name, ErrNilRand)
	}
	return &Client{
		name:     cfg.Name,
		acc:      cfg.Account,
		stores:   append([]*store.Store(nil), cfg.Stores...),
		amounts:  append([]money.Money(nil), cfg.Amounts...),
		cheapest: money.Min(cfg.Amounts...),
		maxDelay: cfg.MaxDelay,
		rand:     cfg.Rand,
		bank:     bank,
		bus:      bus,
		logger:   logger.With("actor", "client", "name", cfg.Name),
	}, nil
}

// Name returns the client's name.
func (c *Client) Name() string { return c.name }

// Account returns the client's account.
func (c *Client) Account() *account.Account { return c.acc }

// Purchases returns how many transfers succeeded.
func (c *Client) Purchases() int { return int(c.purchases.Load()) }

// Rejected returns how many transfers were refused for lack of funds.
func (c *Client) Rejected() int { return int(c.rejected.Load()) }

// Run buys until the balance is non-positive or until ctx is cancelled. It
// also stops once the balance is positive but below the cheapest purchase
// amount, since no purchase could ever be accepted again. The balance check
// is a best-effort snapshot.
func (c *Client) Run(ctx context.Context) error {
	cancelled := false
	defer func() { c.finish(cancelled) }()

	for {
		if ctx.Err() != nil {
			cancelled = true
			return nil
		}
		balance := c.acc.Balance()
		if !balance.IsPositive() || balance.LessThan(c.cheapest) {
			return nil
		}

		amount := c.amounts[c.rand.IntN(len(c.amounts))]
		target := c.stores[c.rand.IntN(len(c.stores))]

		outcome, err := c.bank.Transfer(ctx, c.acc, target.Account, amount)
		if err != nil {
			return fmt.Errorf("client %s: purchase at %s: %w", c.name, target.Name, err)
		}
		if outcome == transfer.Success {
			c.purchases.Add(1)
		} else {
			c.rejected.Add(1)
		}

		if err := sleep(ctx, jitter(c.rand, c.maxDelay)); err != nil {
			cancelled = true
			return nil
		}
	}
}

func (c *Client) finish(cancelled bool) {
	balance := c.acc.Balance()
	c.logger.Debug("client finished",
		"purchases", c.Purchases(),
		"rejected", c.Rejected(),
		"balance", balance.String(),
		"cancelled", cancelled,
	)
	done := events.NewClientFinished(c.name, c.Purchases(), c.Rejected(), balance, cancelled)
	if err := c.bus.Emit(context.Background(), done); err != nil {
		c.logger.Warn("failed to emit finish event", "error", err)
	}
}
