package store

import (
	"errors"
	"fmt"

	"github.com/amirasaad/marketsim/pkg/domain/account"
	"github.com/amirasaad/marketsim/pkg/money"
)

var (
	// ErrNilAccount is returned when a store is built without an account.
	ErrNilAccount = errors.New("store account is required")

	// ErrInvalidPayroll is returned for a negative salary or employee count.
	ErrInvalidPayroll = errors.New("invalid payroll")

	// ErrTooManyPayees is returned when more salary accounts are hired than
	// the store has employees.
	ErrTooManyPayees = errors.New("more payees than employees")
)

// Store owns an account and pays a fixed aggregate payroll from it.
//
// A Store has no lock of its own: the payroll check and debit are a single
// atomic Account.Debit. Hired salary accounts receive one salary each from
// that debit; the share of employees without a hired account leaves the
// simulation.
type Store struct {
	Name      string
	Account   *account.Account
	Salary    money.Money
	Employees int

	payees []*account.Account
}

// New creates a store paying salary to each of employees per payroll.
func New(name string, acc *account.Account, salary money.Money, employees int) (*Store, error) {
	if acc == nil {
		return nil, ErrNilAccount
	}
	if salary.IsNegative() || employees < 0 {
		return nil, fmt.Errorf("%w: salary %s, employees %d", ErrInvalidPayroll, salary, employees)
	}
	return &Store{
		Name:      name,
		Account:   acc,
		Salary:    salary,
		Employees: employees,
	}, nil
}

// Payroll is the aggregate amount paid per cycle.
func (s *Store) Payroll() money.Money {
	return s.Salary.MulInt(int64(s.Employees))
}

// Hire registers the salary account of one employee. It must be called
// before payroll starts.
func (s *Store) Hire(salaryAccount *account.Account) error {
	if salaryAccount == nil {
		return ErrNilAccount
	}
	if len(s.payees) >= s.Employees {
		return fmt.Errorf("%w: %s has %d employees", ErrTooManyPayees, s.Name, s.Employees)
	}
	s.payees = append(s.payees, salaryAccount)
	return nil
}

// Payees returns the hired salary accounts.
func (s *Store) Payees() []*account.Account {
	return append([]*account.Account(nil), s.payees...)
}

// PayPayroll debits the whole payroll if the balance covers it and credits one
// salary to every hired account. Otherwise it returns
// account.ErrInsufficientFunds and takes no action.
func (s *Store) PayPayroll() error {
	payroll := s.Payroll()
	if err := s.Account.Debit(payroll); err != nil {
		return fmt.Errorf("pay payroll of %s: %w", s.Name, err)
	}
	for i, payee := range s.payees {
		if err := payee.Credit(s.Salary); err != nil {
			// Take back what was already paid and refund the store.
			for _, paid := range s.payees[:i] {
				if rbErr := paid.Debit(s.Salary); rbErr != nil {
					err = errors.Join(err, rbErr)
				}
			}
			if rbErr := s.Account.Credit(payroll); rbErr != nil {
				err = errors.Join(err, rbErr)
			}
			return fmt.Errorf("pay salary of %s to %s: %w", s.Name, payee, err)
		}
	}
	return nil
}

// Balance is a snapshot of the store account balance.
func (s *Store) Balance() money.Money {
	return s.Account.Balance()
}
