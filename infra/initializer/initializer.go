package initializer

import (
	"io"
	"log/slog"

	"github.com/amirasaad/marketsim/infra/console"
	infra_eventbus "github.com/amirasaad/marketsim/infra/eventbus"
	"github.com/amirasaad/marketsim/pkg/config"
)

// Deps holds the infrastructure shared by a simulation run.
type Deps struct {
	Logger   *slog.Logger
	EventBus *infra_eventbus.MemoryAsyncEventBus
	Console  *console.Printer
}

// Close drains pending events.
func (d *Deps) Close() {
	d.EventBus.Close()
}

// InitializeDependencies builds the logger, the async event bus and the
// console printer subscribed to it. Logs go to logOut, events to eventOut.
func InitializeDependencies(cfg *config.App, logOut, eventOut io.Writer) *Deps {
	logger := SetupLogger(cfg.Log, logOut)
	bus := infra_eventbus.NewWithMemoryAsync(logger, cfg.Simulation.EventBuffer)

	printer := console.NewPrinter(eventOut, cfg.Simulation.ConsoleColor)
	printer.Register(bus)

	logger.Debug("dependencies initialized",
		"env", cfg.Env,
		"event_buffer", cfg.Simulation.EventBuffer,
	)
	return &Deps{Logger: logger, EventBus: bus, Console: printer}
}
