package events

import (
	"github.com/amirasaad/marketsim/pkg/money"
)

// PayrollPaid is emitted when a store paid its employees for a cycle.
type PayrollPaid struct {
	Meta
	Store     string
	Cycle     uint64
	Employees int
	Amount    money.Money
	Remaining money.Money
}

// PayrollFailed is emitted when a store could not cover its payroll.
type PayrollFailed struct {
	Meta
	Store   string
	Cycle   uint64
	Amount  money.Money
	Balance money.Money
	Reason  string
}

func (e PayrollPaid) Type() string   { return EventTypePayrollPaid.String() }
func (e PayrollFailed) Type() string { return EventTypePayrollFailed.String() }
