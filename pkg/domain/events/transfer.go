package events

import (
	"github.com/amirasaad/marketsim/pkg/money"
)

// TransferCompleted is emitted after funds moved from one account to another.
type TransferCompleted struct {
	Meta
	From   string
	To     string
	Amount money.Money
}

// TransferFailed is emitted when a transfer was refused.
type TransferFailed struct {
	Meta
	From   string
	To     string
	Amount money.Money
	Reason string
}

func (e TransferCompleted) Type() string { return EventTypeTransferCompleted.String() }
func (e TransferFailed) Type() string    { return EventTypeTransferFailed.String() }
