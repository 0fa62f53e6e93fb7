package store_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/amirasaad/marketsim/pkg/domain/account"
	"github.com/amirasaad/marketsim/pkg/domain/store"
	"github.com/amirasaad/marketsim/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, balance money.Money) *store.Store {
	t.Helper()
	acc := account.New().WithOwner("Loja1").WithKind(account.KindStore).WithBalance(balance).MustBuild()
	s, err := store.New("Loja1", acc, money.New(1400), 2)
	require.NoError(t, err)
	return s
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	acc := account.New().WithOwner("Loja1").WithKind(account.KindStore).MustBuild()

	_, err := store.New("Loja1", nil, money.New(1400), 2)
	assert.ErrorIs(t, err, store.ErrNilAccount)

	_, err = store.New("Loja1", acc, money.New(-1), 2)
	assert.ErrorIs(t, err, store.ErrInvalidPayroll)

	_, err = store.New("Loja1", acc, money.New(1400), -1)
	assert.ErrorIs(t, err, store.ErrInvalidPayroll)
}

func TestPayroll(t *testing.T) {
	t.Parallel()
	s := newStore(t, money.Zero)
	assert.True(t, s.Payroll().Equals(money.New(2800)))
}

func TestPayPayroll(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		balance     money.Money
		expectedErr error
		expected    money.Money
	}{
		{"balance exactly equal to payroll drains to zero", money.New(2800), nil, money.Zero},
		{"one unit less is refused", money.New(2799), account.ErrInsufficientFunds, money.New(2799)},
		{"a cent less is refused", money.Must("2799.99"), account.ErrInsufficientFunds, money.Must("2799.99")},
		{"surplus is kept", money.New(5000), nil, money.New(2200)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := newStore(t, tc.balance)
			err := s.PayPayroll()
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.True(t, s.Balance().Equals(tc.expected), "balance %s", s.Balance())
		})
	}
}

func TestPayPayroll_ConcurrentCallsNeverOverdraw(t *testing.T) {
	t.Parallel()
	s := newStore(t, money.New(2800*3+100))

	var (
		wg   sync.WaitGroup
		paid atomic.Int32
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.PayPayroll() == nil {
				paid.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(3), paid.Load())
	assert.True(t, s.Balance().Equals(money.New(100)))
}

func newSalaryAccount(owner string) *account.Account {
	return account.New().WithOwner(owner).WithKind(account.KindSalary).MustBuild()
}

func TestHire(t *testing.T) {
	t.Parallel()
	s := newStore(t, money.Zero)

	assert.ErrorIs(t, s.Hire(nil), store.ErrNilAccount)
	require.NoError(t, s.Hire(newSalaryAccount("Funcionario1")))
	require.NoError(t, s.Hire(newSalaryAccount("Funcionario2")))
	assert.ErrorIs(t, s.Hire(newSalaryAccount("Funcionario3")), store.ErrTooManyPayees)
	assert.Len(t, s.Payees(), 2)
}

func TestPayPayroll_CreditsPayees(t *testing.T) {
	t.Parallel()
	s := newStore(t, money.New(3000))
	first, second := newSalaryAccount("Funcionario1"), newSalaryAccount("Funcionario2")
	require.NoError(t, s.Hire(first))
	require.NoError(t, s.Hire(second))

	require.NoError(t, s.PayPayroll())
	assert.True(t, s.Balance().Equals(money.New(200)))
	assert.True(t, first.Balance().Equals(money.New(1400)))
	assert.True(t, second.Balance().Equals(money.New(1400)))

	err := s.PayPayroll()
	assert.ErrorIs(t, err, account.ErrInsufficientFunds)
	assert.True(t, s.Balance().Equals(money.New(200)))
	assert.True(t, first.Balance().Equals(money.New(1400)), "refused payroll must not pay anyone")
	assert.True(t, second.Balance().Equals(money.New(1400)))
}

func TestPayPayroll_ConservesMoneyWithPayees(t *testing.T) {
	t.Parallel()
	s := newStore(t, money.New(2800*4))
	payees := []*account.Account{newSalaryAccount("Funcionario1"), newSalaryAccount("Funcionario2")}
	for _, p := range payees {
		require.NoError(t, s.Hire(p))
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.PayPayroll()
		}()
	}
	wg.Wait()

	total := s.Balance().Add(payees[0].Balance()).Add(payees[1].Balance())
	assert.True(t, total.Equals(money.New(2800*4)), "total %s", total)
	assert.True(t, s.Balance().IsZero())
}
