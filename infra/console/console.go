// Package console prints simulation events as one human readable line each.
package console

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/amirasaad/marketsim/pkg/domain/events"
	"github.com/amirasaad/marketsim/pkg/eventbus"
	"github.com/fatih/color"
)

// Printer writes events to an io.Writer.
type Printer struct {
	mu  sync.Mutex
	out io.Writer

	ok   *color.Color
	fail *color.Color
	pay  *color.Color
	info *color.Color
}

// NewPrinter creates a printer. With colored false no escape codes are written.
func NewPrinter(out io.Writer, colored bool) *Printer {
	p := &Printer{
		out:  out,
		ok:   color.New(color.FgGreen),
		fail: color.New(color.FgRed),
		pay:  color.New(color.FgCyan, color.Bold),
		info: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.ok, p.fail, p.pay, p.info} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Register subscribes the printer to every event on bus.
func (p *Printer) Register(bus eventbus.Bus) {
	bus.Register(eventbus.AllEvents, p.Handle)
}

// Handle implements eventbus.HandlerFunc.
func (p *Printer) Handle(_ context.Context, e events.Event) error {
	c, line := p.format(e)
	if line == "" {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := c.Fprintln(p.out, line)
	return err
}

func (p *Printer) format(e events.Event) (*color.Color, string) {
	switch ev := e.(type) {
	case *events.TransferCompleted:
		return p.ok, fmt.Sprintf("%s paid %s to %s", ev.From, ev.Amount, ev.To)
	case *events.TransferFailed:
		return p.fail, fmt.Sprintf("%s could not pay %s to %s: %s", ev.From, ev.Amount, ev.To, ev.Reason)
	case *events.PayrollPaid:
		return p.pay, fmt.Sprintf("%s paid payroll %s to %d employees (cycle %d, %s left)",
			ev.Store, ev.Amount, ev.Employees, ev.Cycle, ev.Remaining)
	case *events.PayrollFailed:
		return p.fail, fmt.Sprintf("%s cannot pay payroll %s (cycle %d, balance %s)",
			ev.Store, ev.Amount, ev.Cycle, ev.Balance)
	case *events.InvestmentMade:
		return p.info, fmt.Sprintf("%s invested %s of %s (total %s)", ev.Employee, ev.Amount, ev.Salary, ev.Total)
	case *events.EmployeeStopped:
		return p.info, fmt.Sprintf("%s stopped after %d paydays, invested %s", ev.Employee, ev.Paydays, ev.Invested)
	case *events.ClientFinished:
		if ev.Cancelled {
			return p.info, fmt.Sprintf("%s interrupted after %d purchases, balance %s", ev.Client, ev.Purchases, ev.Balance)
		}
		return p.info, fmt.Sprintf("%s finished shopping after %d purchases, balance %s", ev.Client, ev.Purchases, ev.Balance)
	default:
		return p.info, e.Type()
	}
}
