package events

import (
	"github.com/amirasaad/marketsim/pkg/money"
)

// NewTransferCompleted creates a TransferCompleted event.
func NewTransferCompleted(from, to string, amount money.Money) *TransferCompleted {
	return &TransferCompleted{
		Meta:   NewMeta(),
		From:   from,
		To:     to,
		Amount: amount,
	}
}

// NewTransferFailed creates a TransferFailed event.
func NewTransferFailed(from, to string, amount money.Money, reason string) *TransferFailed {
	return &TransferFailed{
		Meta:   NewMeta(),
		From:   from,
		To:     to,
		Amount: amount,
		Reason: reason,
	}
}
