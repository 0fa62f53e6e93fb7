package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amirasaad/marketsim/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "text", cfg.Log.Format)
	sim := cfg.Simulation
	assert.Equal(t, 5, sim.Clients)
	assert.Equal(t, 2, sim.Stores)
	assert.Equal(t, 4, sim.Employees)
	assert.Equal(t, int64(1000), sim.ClientBalance)
	assert.Equal(t, int64(1400), sim.Salary)
	assert.True(t, sim.InvestmentRate.Equal(decimal.RequireFromString("0.2")))
	require.Len(t, sim.PurchaseAmounts, 2)
	assert.True(t, sim.PurchaseAmounts[0].Equals(money.New(100)))
	assert.True(t, sim.PurchaseAmounts[1].Equals(money.New(200)))
	assert.Equal(t, time.Second, sim.MaxPurchaseDelay)
	assert.Equal(t, 5*time.Second, sim.PayrollInterval)
	assert.Equal(t, 1024, sim.EventBuffer)
	assert.True(t, sim.ConsoleColor)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SIM_CLIENTS", "3")
	t.Setenv("SIM_PURCHASE_AMOUNTS", "50, 75.5")
	t.Setenv("SIM_INVESTMENT_RATE", "0.5")
	t.Setenv("SIM_PAYROLL_INTERVAL", "250ms")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Simulation.Clients)
	assert.Equal(t, "50.00,75.50", cfg.Simulation.PurchaseAmounts.String())
	assert.True(t, cfg.Simulation.InvestmentRate.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, 250*time.Millisecond, cfg.Simulation.PayrollInterval)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte("SIM_STORES=7\nSIM_MAX_CYCLES=3\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SIM_STORES")     //nolint:errcheck
		os.Unsetenv("SIM_MAX_CYCLES") //nolint:errcheck
	})

	cfg, err := Load("missing.env", ".env.test")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Simulation.Stores)
	assert.Equal(t, uint64(3), cfg.Simulation.MaxCycles)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"no clients", "SIM_CLIENTS", "0"},
		{"rate above one", "SIM_INVESTMENT_RATE", "1.5"},
		{"negative rate", "SIM_INVESTMENT_RATE", "-0.1"},
		{"zero purchase amount", "SIM_PURCHASE_AMOUNTS", "100,0"},
		{"zero payroll interval", "SIM_PAYROLL_INTERVAL", "0s"},
		{"unknown log format", "LOG_FORMAT", "xml"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_UnparsableAmount(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SIM_PURCHASE_AMOUNTS", "100,abc")
	_, err := Load()
	assert.Error(t, err)
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestFindEnvFile(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), nil, 0o600))
	t.Chdir(nested)

	found, err := FindEnvFile("")
	require.NoError(t, err)
	assert.Equal(t, ".env", filepath.Base(found))

	_, err = FindEnvFile("nope.env")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
