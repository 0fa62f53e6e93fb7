package events

import (
	"github.com/amirasaad/marketsim/pkg/money"
)

// NewInvestmentMade creates an InvestmentMade event.
func NewInvestmentMade(employee string, salary, amount, total money.Money) *InvestmentMade {
	return &InvestmentMade{
		Meta:     NewMeta(),
		Employee: employee,
		Salary:   salary,
		Amount:   amount,
		Total:    total,
	}
}

// NewEmployeeStopped creates an EmployeeStopped event.
func NewEmployeeStopped(employee string, paydays int, invested money.Money) *EmployeeStopped {
	return &EmployeeStopped{
		Meta:     NewMeta(),
		Employee: employee,
		Paydays:  paydays,
		Invested: invested,
	}
}

// NewClientFinished creates a ClientFinished event.
func NewClientFinished(client string, purchases, rejected int, balance money.Money, cancelled bool) *ClientFinished {
	return &ClientFinished{
		Meta:      NewMeta(),
		Client:    client,
		Purchases: purchases,
		Rejected:  rejected,
		Balance:   balance,
		Cancelled: cancelled,
	}
}
