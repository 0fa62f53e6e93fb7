package events

import (
	"github.com/amirasaad/marketsim/pkg/money"
)

// --- PayrollPaid ---
type PayrollPaidOpt func(*PayrollPaid)

func WithPayrollEmployees(n int) PayrollPaidOpt {
	return func(e *PayrollPaid) { e.Employees = n }
}

func WithPayrollRemaining(m money.Money) PayrollPaidOpt {
	return func(e *PayrollPaid) { e.Remaining = m }
}

func NewPayrollPaid(store string, cycle uint64, amount money.Money, opts ...PayrollPaidOpt) *PayrollPaid {
	event := PayrollPaid{
		Meta:      NewMeta(),
		Store:     store,
		Cycle:     cycle,
		Amount:    amount,
		Remaining: money.Zero,
	}
	for _, opt := range opts {
		opt(&event)
	}
	return &event
}

// --- PayrollFailed ---
type PayrollFailedOpt func(*PayrollFailed)

func WithPayrollBalance(m money.Money) PayrollFailedOpt {
	return func(e *PayrollFailed) { e.Balance = m }
}

func WithPayrollReason(reason string) PayrollFailedOpt {
	return func(e *PayrollFailed) { e.Reason = reason }
}

func NewPayrollFailed(store string, cycle uint64, amount money.Money, opts ...PayrollFailedOpt) *PayrollFailed {
	event := PayrollFailed{
		Meta:    NewMeta(),
		Store:   store,
		Cycle:   cycle,
		Amount:  amount,
		Balance: money.Zero,
	}
	for _, opt := range opts {
		opt(&event)
	}
	return &event
}
