// Package simulation wires accounts, stores and actors together and drives
// the periodic payroll cycle.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/amirasaad/marketsim/pkg/actor"
	"github.com/amirasaad/marketsim/pkg/config"
	"github.com/amirasaad/marketsim/pkg/domain/account"
	"github.com/amirasaad/marketsim/pkg/domain/store"
	"github.com/amirasaad/marketsim/pkg/eventbus"
	"github.com/amirasaad/marketsim/pkg/money"
	"github.com/amirasaad/marketsim/pkg/service/payroll"
	"github.com/amirasaad/marketsim/pkg/service/transfer"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("simulation already running")

	// ErrNilConfig is returned when New gets no simulation config.
	ErrNilConfig = errors.New("simulation config is required")

	// ErrInvalidInterval is returned for a non-positive payroll interval.
	ErrInvalidInterval = errors.New("payroll interval must be positive")
)

// Simulation owns every account and actor of one run.
type Simulation struct {
	cfg    config.Simulation
	logger *slog.Logger

	transfers *transfer.Service
	payrolls  *payroll.Service

	accounts  []*account.Account
	stores    []*store.Store
	employees []*actor.Employee
	clients   []*actor.Client
	initial   money.Money

	started     atomic.Bool
	cycles      atomic.Uint64
	payrollPaid money.Money
}

// New builds accounts, stores and actors from cfg. Employees are assigned to
// stores round-robin; a store's payroll is the salary times its employees and
// is credited to their salary accounts.
func New(cfg *config.Simulation, bus eventbus.Bus, logger *slog.Logger) (*Simulation, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Stores < 1 {
		return nil, actor.ErrNoStores
	}
	if cfg.PayrollInterval <= 0 {
		return nil, ErrInvalidInterval
	}
	s := &Simulation{
		cfg:         *cfg,
		logger:      logger.With("component", "simulation"),
		transfers:   transfer.New(bus, logger),
		payrolls:    payroll.New(bus, logger),
		payrollPaid: money.Zero,
		initial:     money.Zero,
	}
	salary := money.New(cfg.Salary)
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	staff := make([]int, cfg.Stores)
	for i := range cfg.Employees {
		staff[i%cfg.Stores]++
	}
	for i := range cfg.Stores {
		name := fmt.Sprintf("Loja%d", i+1)
		acc, err := s.open(name, account.KindStore, money.New(cfg.StoreBalance))
		if err != nil {
			return nil, err
		}
		st, err := store.New(name, acc, salary, staff[i])
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", name, err)
		}
		s.stores = append(s.stores, st)
	}

	for i := range cfg.Employees {
		salaryAcc, err := s.open(fmt.Sprintf("Funcionario%d", i+1), account.KindSalary, money.Zero)
		if err != nil {
			return nil, err
		}
		investAcc, err := s.open(fmt.Sprintf("Investimento%d", i+1), account.KindInvestment, money.Zero)
		if err != nil {
			return nil, err
		}
		if err := s.stores[i%cfg.Stores].Hire(salaryAcc); err != nil {
			return nil, err
		}
		e, err := actor.NewEmployee(actor.EmployeeConfig{
			Name:              salaryAcc.Owner,
			SalaryAccount:     salaryAcc,
			InvestmentAccount: investAcc,
			Salary:            salary,
			InvestmentRate:    cfg.InvestmentRate,
		}, bus, logger)
		if err != nil {
			return nil, err
		}
		s.employees = append(s.employees, e)
	}

	for i := range cfg.Clients {
		acc, err := s.open(fmt.Sprintf("Cliente%d", i+1), account.KindClient, money.New(cfg.ClientBalance))
		if err != nil {
			return nil, err
		}
		c, err := actor.NewClient(actor.ClientConfig{
			Name:     acc.Owner,
			Account:  acc,
			Stores:   s.stores,
			Amounts:  cfg.PurchaseAmounts,
			MaxDelay: cfg.MaxPurchaseDelay,
			Rand:     actor.NewRand(seed, uint64(i+1)),
		}, s.transfers, bus, logger)
		if err != nil {
			return nil, err
		}
		s.clients = append(s.clients, c)
	}
	return s, nil
}

func (s *Simulation) open(owner string, kind account.Kind, balance money.Money) (*account.Account, error) {
	acc, err := account.New().WithOwner(owner).WithKind(kind).WithBalance(balance).Build()
	if err != nil {
		return nil, fmt.Errorf("open account %s: %w", owner, err)
	}
	s.accounts = append(s.accounts, acc)
	s.initial = s.initial.Add(balance)
	return acc, nil
}

// Stores returns the stores of the simulation.
func (s *Simulation) Stores() []*store.Store { return s.stores }

// Employees returns the employee actors.
func (s *Simulation) Employees() []*actor.Employee { return s.employees }

// Clients returns the client actors.
func (s *Simulation) Clients() []*actor.Client { return s.clients }

// Run starts every actor and pays payroll every PayrollInterval until ctx is
// cancelled or MaxCycles cycles ran. It then stops every actor, waits for
// them and returns the final report. A failed audit aborts the run with an
// error wrapping account.ErrInvariantViolation.
func (s *Simulation) Run(ctx context.Context) (*Report, error) {
	if !s.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}

	actorCtx, stopActors := context.WithCancel(ctx)
	defer stopActors()
	g, gctx := errgroup.WithContext(actorCtx)
	for _, e := range s.employees {
		g.Go(func() error { return e.Run(gctx) })
	}
	for _, c := range s.clients {
		g.Go(func() error { return c.Run(gctx) })
	}
	s.logger.Info("simulation started",
		"clients", len(s.clients),
		"stores", len(s.stores),
		"employees", len(s.employees),
		"interval", s.cfg.PayrollInterval,
	)

	loopErr := s.loop(gctx)
	stopActors()
	waitErr := g.Wait()

	report := s.report()
	if err := errors.Join(loopErr, waitErr); err != nil {
		s.logger.Error("simulation aborted", "error", err)
		return report, err
	}
	s.logger.Info("simulation stopped", "cycles", report.Cycles)
	return report, nil
}

func (s *Simulation) loop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.PayrollInterval)
	defer ticker.Stop()
	for {
		if s.cfg.MaxCycles > 0 && s.cycles.Load() >= s.cfg.MaxCycles {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if err := s.cycle(ctx, s.cycles.Add(1)); err != nil {
			return err
		}
	}
}

// cycle runs one payroll cycle: every store pays, every employee is notified,
// every account is audited.
func (s *Simulation) cycle(ctx context.Context, n uint64) error {
	log := s.logger.With("cycle", n)
	for _, st := range s.stores {
		outcome, err := s.payrolls.Pay(ctx, n, st)
		if err != nil {
			return fmt.Errorf("cycle %d: %w", n, err)
		}
		if outcome == payroll.Paid {
			s.payrollPaid = s.payrollPaid.Add(st.Payroll())
		}
	}
	for _, e := range s.employees {
		e.Notify()
	}
	if err := s.audit(); err != nil {
		return fmt.Errorf("cycle %d: %w", n, err)
	}
	log.Debug("payroll cycle done")
	return nil
}

func (s *Simulation) audit() error {
	var errs []error
	for _, acc := range s.accounts {
		if err := acc.Audit(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
