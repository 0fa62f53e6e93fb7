package events

import (
	"github.com/amirasaad/marketsim/pkg/money"
)

// InvestmentMade is emitted each time an employee invests part of a salary.
type InvestmentMade struct {
	Meta
	Employee string
	Salary   money.Money
	Amount   money.Money
	Total    money.Money
}

// EmployeeStopped is emitted when an employee actor shuts down.
type EmployeeStopped struct {
	Meta
	Employee string
	Paydays  int
	Invested money.Money
}

// ClientFinished is emitted when a client actor leaves its purchase loop.
type ClientFinished struct {
	Meta
	Client    string
	Purchases int
	Rejected  int
	Balance   money.Money
	Cancelled bool
}

func (e InvestmentMade) Type() string  { return EventTypeInvestmentMade.String() }
func (e EmployeeStopped) Type() string { return EventTypeEmployeeStopped.String() }
func (e ClientFinished) Type() string  { return EventTypeClientFinished.String() }
