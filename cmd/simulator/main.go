package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/amirasaad/marketsim/infra/initializer"
	"github.com/amirasaad/marketsim/pkg/config"
	"github.com/amirasaad/marketsim/pkg/simulation"
	log "github.com/charmbracelet/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps := initializer.InitializeDependencies(cfg, os.Stderr, os.Stdout)
	defer deps.Close()
	logger := deps.Logger

	sim, err := simulation.New(cfg.Simulation, deps.EventBus, logger)
	if err != nil {
		return fmt.Errorf("failed to build simulation: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting simulation",
		"env", cfg.Env,
		"max_cycles", cfg.Simulation.MaxCycles,
		"seed", cfg.Simulation.Seed,
	)
	report, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	deps.Close()
	attrs := append(report.LogValue().Group(),
		slog.Uint64("events_delivered", deps.EventBus.Delivered()),
		slog.Uint64("events_dropped", deps.EventBus.Dropped()),
	)
	logger.LogAttrs(context.Background(), slog.LevelInfo, "simulation finished", attrs...)
	return nil
}
