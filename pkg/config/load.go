package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the first env file found among envFilePath (or .env), then the
// process environment, and validates the result.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()

	if len(envFilePath) == 0 {
		logger.Debug("No environment file specified, trying default .env")
		if err := godotenv.Load(); err != nil {
			logger.Debug("No .env file found in current directory")
		}
		return loadFromEnv()
	}

	for _, path := range envFilePath {
		foundPath, err := FindEnvFile(path)
		if err != nil {
			logger.Debug("Environment file not found", "path", path, "error", err)
			continue
		}
		if err := godotenv.Load(foundPath); err != nil {
			logger.Error("Failed to load environment file", "path", foundPath, "error", err)
			continue
		}
		logger.Debug("Environment loaded from file", "path", foundPath)
		return loadFromEnv()
	}

	logger.Debug("No valid environment files found, using process environment")
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sim := cfg.Simulation
	slog.Default().Debug("App config loaded",
		"env", cfg.Env,
		"clients", sim.Clients,
		"stores", sim.Stores,
		"employees", sim.Employees,
		"payroll_interval", sim.PayrollInterval,
		"purchase_amounts", sim.PurchaseAmounts.String(),
		"max_cycles", sim.MaxCycles,
	)
	return &cfg, nil
}
