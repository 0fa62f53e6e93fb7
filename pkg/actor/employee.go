package actor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/amirasaad/marketsim/pkg/domain/account"
	"github.com/amirasaad/marketsim/pkg/domain/events"
	"github.com/amirasaad/marketsim/pkg/eventbus"
	"github.com/amirasaad/marketsim/pkg/money"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidInvestmentRate is returned for a rate outside [0, 1].
	ErrInvalidInvestmentRate = errors.New("investment rate must be between 0 and 1")

	// ErrMissingAccount is returned when an actor is built without its accounts.
	ErrMissingAccount = errors.New("actor account is required")
)

// EmployeeState is the state of an employee actor.
type EmployeeState int32

const (
	WaitingForPayroll EmployeeState = iota
	Investing
	Stopped
)

func (s EmployeeState) String() string {
	switch s {
	case WaitingForPayroll:
		return "waiting_for_payroll"
	case Investing:
		return "investing"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// EmployeeConfig describes one employee.
type EmployeeConfig struct {
	Name              string
	SalaryAccount     *account.Account
	InvestmentAccount *account.Account
	Salary            money.Money
	InvestmentRate    decimal.Decimal
}

// Employee waits for payroll notifications and invests part of each salary.
// The salary itself is credited by the store's payroll; on every notification
// the employee moves the invested share from its salary account to its
// investment account. Both accounts are private to the employee.
type Employee struct {
	name       string
	salaryAcc  *account.Account
	investAcc  *account.Account
	salary     money.Money
	investment money.Money

	signal *Signal
	bus    eventbus.Bus
	logger *slog.Logger

	state   atomic.Int32
	paydays atomic.Int64
	missed  atomic.Int64
}

// NewEmployee validates cfg and creates an employee in WaitingForPayroll.
func NewEmployee(cfg EmployeeConfig, bus eventbus.Bus, logger *slog.Logger) (*Employee, error) {
	if cfg.SalaryAccount == nil || cfg.InvestmentAccount == nil {
		return nil, fmt.Errorf("employee %s: %w", cfg.Name, ErrMissingAccount)
	}
	if cfg.InvestmentRate.IsNegative() || cfg.InvestmentRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("employee %s: %w: %s", cfg.Name, ErrInvalidInvestmentRate, cfg.InvestmentRate)
	}
	if cfg.Salary.IsNegative() {
		return nil, fmt.Errorf("employee %s: salary: %w", cfg.Name, account.ErrNegativeAmount)
	}
	return &Employee{
		name:       cfg.Name,
		salaryAcc:  cfg.SalaryAccount,
		investAcc:  cfg.InvestmentAccount,
		salary:     cfg.Salary,
		investment: cfg.Salary.Mul(cfg.InvestmentRate),
		signal:     NewSignal(),
		bus:        bus,
		logger:     logger.With("actor", "employee", "name", cfg.Name),
	}, nil
}

// Name returns the employee's name.
func (e *Employee) Name() string { return e.name }

// Notify delivers a payroll notification. It never blocks.
func (e *Employee) Notify() {
	if !e.signal.Notify() {
		e.logger.Debug("payroll notification coalesced with a pending one")
	}
}

// State returns the current state.
func (e *Employee) State() EmployeeState {
	return EmployeeState(e.state.Load())
}

// Paydays returns how many notifications ended in an investment.
func (e *Employee) Paydays() int {
	return int(e.paydays.Load())
}

// Missed returns how many notifications found the salary account unable to
// cover the investment.
func (e *Employee) Missed() int {
	return int(e.missed.Load())
}

// Investment is the amount invested on every payday.
func (e *Employee) Investment() money.Money { return e.investment }

// SalaryAccount returns the employee's salary account.
func (e *Employee) SalaryAccount() *account.Account { return e.salaryAcc }

// InvestmentAccount returns the employee's investment account.
func (e *Employee) InvestmentAccount() *account.Account { return e.investAcc }

// Run loops WaitingForPayroll -> Investing -> WaitingForPayroll until ctx is
// cancelled. Cancellation is a clean stop and returns nil.
func (e *Employee) Run(ctx context.Context) error {
	defer e.stop()
	for {
		e.state.Store(int32(WaitingForPayroll))
		if err := e.signal.Wait(ctx); err != nil {
			return nil
		}
		e.state.Store(int32(Investing))
		if err := e.invest(ctx); err != nil {
			return err
		}
	}
}

func (e *Employee) invest(ctx context.Context) error {
	if err := e.salaryAcc.Debit(e.investment); err != nil {
		if errors.Is(err, account.ErrInsufficientFunds) {
			n := e.missed.Add(1)
			e.logger.Warn("salary account cannot cover investment",
				"amount", e.investment.String(),
				"balance", e.salaryAcc.Balance().String(),
				"missed", n,
			)
			return nil
		}
		return fmt.Errorf("employee %s: withdraw investment: %w", e.name, err)
	}
	if err := e.investAcc.Credit(e.investment); err != nil {
		return fmt.Errorf("employee %s: invest: %w", e.name, err)
	}
	n := e.paydays.Add(1)

	total := e.investAcc.Balance()
	e.logger.Debug("salary invested", "amount", e.investment.String(), "total", total.String(), "payday", n)
	if err := e.bus.Emit(ctx, events.NewInvestmentMade(e.name, e.salary, e.investment, total)); err != nil {
		e.logger.Warn("failed to emit investment event", "error", err)
	}
	return nil
}

func (e *Employee) stop() {
	e.state.Store(int32(Stopped))
	e.logger.Debug("employee stopped", "paydays", e.Paydays())
	stopped := events.NewEmployeeStopped(e.name, e.Paydays(), e.investAcc.Balance())
	if err := e.bus.Emit(context.Background(), stopped); err != nil {
		e.logger.Warn("failed to emit stop event", "error", err)
	}
}
