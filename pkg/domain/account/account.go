package account

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/amirasaad/marketsim/pkg/money"
	"github.com/google/uuid"
)

var (
	// ErrInsufficientFunds is returned when a debit would overdraw the account.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNegativeAmount is returned when a credit or debit amount is negative.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrInvariantViolation signals a negative balance. It indicates a locking bug
	// and is never an expected business outcome.
	ErrInvariantViolation = errors.New("account invariant violated")

	// ErrOwnerRequired is returned when building an account without an owner.
	ErrOwnerRequired = errors.New("owner is required")
)

// Kind classifies what an account belongs to.
type Kind string

const (
	KindClient     Kind = "client"
	KindStore      Kind = "store"
	KindSalary     Kind = "salary"
	KindInvestment Kind = "investment"
)

// Account is a shared mutable balance cell.
//
// Invariants:
//   - The balance is only read or written while holding the account's own lock.
//   - The balance never goes negative: a debit larger than the balance is refused.
//   - Check-then-act in Debit happens under a single lock acquisition.
type Account struct {
	ID        uuid.UUID
	Owner     string
	Kind      Kind
	CreatedAt time.Time

	mu      sync.Mutex
	balance money.Money
}

// Builder provides a fluent API for constructing Account instances.
type Builder struct {
	id        uuid.UUID
	owner     string
	kind      Kind
	balance   money.Money
	createdAt time.Time
}

// New creates a new Builder with a fresh UUID and a zero balance.
func New() *Builder {
	return &Builder{
		id:        uuid.New(),
		kind:      KindClient,
		balance:   money.Zero,
		createdAt: time.Now(),
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithOwner sets the owner label. This is a mandatory field.
func (b *Builder) WithOwner(owner string) *Builder {
	b.owner = owner
	return b
}

// WithKind sets the account kind. Defaults to KindClient.
func (b *Builder) WithKind(kind Kind) *Builder {
	b.kind = kind
	return b
}

// WithBalance sets the opening balance.
func (b *Builder) WithBalance(balance money.Money) *Builder {
	b.balance = balance
	return b
}

// Build validates the owner and opening balance and returns the account.
func (b *Builder) Build() (*Account, error) {
	if b.owner == "" {
		return nil, ErrOwnerRequired
	}
	if b.balance.IsNegative() {
		return nil, fmt.Errorf("opening balance %s: %w", b.balance, ErrNegativeAmount)
	}
	return &Account{
		ID:        b.id,
		Owner:     b.owner,
		Kind:      b.kind,
		CreatedAt: b.createdAt,
		balance:   b.balance,
	}, nil
}

// MustBuild is Build for static setup; it panics on invalid input.
func (b *Builder) MustBuild() *Account {
	a, err := b.Build()
	if err != nil {
		panic(err)
	}
	return a
}

// Credit adds amount to the balance.
func (a *Account) Credit(amount money.Money) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance = a.balance.Add(amount)
	return nil
}

// Debit subtracts amount if the balance covers it. Otherwise it returns
// ErrInsufficientFunds and leaves the balance untouched.
func (a *Account) Debit(amount money.Money) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	if a.balance.IsNegative() {
		panic(fmt.Errorf("%w: %s balance %s after debit of %s", ErrInvariantViolation, a.Owner, a.balance, amount))
	}
	return nil
}

// TryDebit is Debit reporting success as a bool.
func (a *Account) TryDebit(amount money.Money) bool {
	return a.Debit(amount) == nil
}

// Balance returns a snapshot of the balance, valid only at the instant read.
func (a *Account) Balance() money.Money {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Audit returns ErrInvariantViolation if the balance is negative.
func (a *Account) Audit() error {
	if bal := a.Balance(); bal.IsNegative() {
		return fmt.Errorf("%w: %s (%s) has balance %s", ErrInvariantViolation, a.Owner, a.Kind, bal)
	}
	return nil
}

func (a *Account) String() string {
	return fmt.Sprintf("%s[%s]", a.Owner, a.Kind)
}
