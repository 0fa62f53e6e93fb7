package simulation

import (
	"log/slog"

	"github.com/amirasaad/marketsim/pkg/domain/account"
	"github.com/amirasaad/marketsim/pkg/money"
	"github.com/amirasaad/marketsim/pkg/service/payroll"
	"github.com/amirasaad/marketsim/pkg/service/transfer"
)

// Balance is the final balance of one account.
type Balance struct {
	Owner   string
	Kind    account.Kind
	Balance money.Money
}

// Report summarizes a finished run.
type Report struct {
	Cycles      uint64
	Payroll     payroll.Stats
	Transfers   transfer.Stats
	PayrollPaid money.Money
	// Initial is the opening money held by every account.
	Initial  money.Money
	Balances []Balance
	Totals   map[account.Kind]money.Money
}

// Held returns the money held by every account.
func (r *Report) Held() money.Money {
	held := money.Zero
	for _, b := range r.Balances {
		held = held.Add(b.Balance)
	}
	return held
}

// Total returns the summed balance of every account of kind.
func (r *Report) Total(kind account.Kind) money.Money {
	if t, ok := r.Totals[kind]; ok {
		return t
	}
	return money.Zero
}

// LogValue implements slog.LogValuer.
func (r *Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("cycles", r.Cycles),
		slog.Uint64("payrolls_paid", r.Payroll.Paid),
		slog.Uint64("payrolls_failed", r.Payroll.Failed),
		slog.Uint64("transfers_completed", r.Transfers.Completed),
		slog.Uint64("transfers_failed", r.Transfers.Failed),
		slog.String("clients", r.Total(account.KindClient).String()),
		slog.String("stores", r.Total(account.KindStore).String()),
		slog.String("salaries", r.Total(account.KindSalary).String()),
		slog.String("invested", r.Total(account.KindInvestment).String()),
	)
}

func (s *Simulation) report() *Report {
	r := &Report{
		Cycles:      s.cycles.Load(),
		Payroll:     s.payrolls.Stats(),
		Transfers:   s.transfers.Stats(),
		PayrollPaid: s.payrollPaid,
		Initial:     s.initial,
		Balances:    make([]Balance, 0, len(s.accounts)),
		Totals:      make(map[account.Kind]money.Money),
	}
	for _, acc := range s.accounts {
		bal := acc.Balance()
		r.Balances = append(r.Balances, Balance{Owner: acc.Owner, Kind: acc.Kind, Balance: bal})
		r.Totals[acc.Kind] = r.Total(acc.Kind).Add(bal)
	}
	return r
}
