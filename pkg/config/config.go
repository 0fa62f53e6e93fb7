package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/marketsim/pkg/money"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text" validate:"oneof=text json logfmt"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"15:04:05.000"`
	Prefix     string `envconfig:"PREFIX" default:"[simulator]"`
}

// Amounts is a comma separated list of purchase amounts, e.g. "100,200".
type Amounts []money.Money

// Decode implements envconfig.Decoder.
func (a *Amounts) Decode(value string) error {
	parts := strings.Split(value, ",")
	out := make(Amounts, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		m, err := money.NewFromString(p)
		if err != nil {
			return fmt.Errorf("purchase amount %q: %w", p, err)
		}
		out = append(out, m)
	}
	*a = out
	return nil
}

func (a Amounts) String() string {
	parts := make([]string, len(a))
	for i, m := range a {
		parts[i] = m.String()
	}
	return strings.Join(parts, ",")
}

type Simulation struct {
	Clients          int             `envconfig:"CLIENTS" default:"5" validate:"gte=1"`
	Stores           int             `envconfig:"STORES" default:"2" validate:"gte=1"`
	Employees        int             `envconfig:"EMPLOYEES" default:"4" validate:"gte=0"`
	ClientBalance    int64           `envconfig:"CLIENT_BALANCE" default:"1000" validate:"gte=0"`
	StoreBalance     int64           `envconfig:"STORE_BALANCE" default:"0" validate:"gte=0"`
	Salary           int64           `envconfig:"SALARY" default:"1400" validate:"gte=0"`
	InvestmentRate   decimal.Decimal `envconfig:"INVESTMENT_RATE" default:"0.2"`
	PurchaseAmounts  Amounts         `envconfig:"PURCHASE_AMOUNTS" default:"100,200" validate:"min=1"`
	MaxPurchaseDelay time.Duration   `envconfig:"MAX_PURCHASE_DELAY" default:"1s" validate:"gte=0"`
	PayrollInterval  time.Duration   `envconfig:"PAYROLL_INTERVAL" default:"5s" validate:"gt=0"`
	MaxCycles        uint64          `envconfig:"MAX_CYCLES" default:"0"`
	Seed             uint64          `envconfig:"SEED" default:"0"`
	EventBuffer      int             `envconfig:"EVENT_BUFFER" default:"1024" validate:"gte=1"`
	ConsoleColor     bool            `envconfig:"CONSOLE_COLOR" default:"true"`
}

type App struct {
	Env        string      `envconfig:"APP_ENV" default:"development"`
	Log        *Log        `envconfig:"LOG" validate:"required"`
	Simulation *Simulation `envconfig:"SIM" validate:"required"`
}

// Validate checks struct tags and the rules tags cannot express.
func (a *App) Validate() error {
	if err := validator.New().Struct(a); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	sim := a.Simulation
	if sim.InvestmentRate.IsNegative() || sim.InvestmentRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: SIM_INVESTMENT_RATE must be between 0 and 1, got %s", ErrInvalidConfig, sim.InvestmentRate)
	}
	for _, m := range sim.PurchaseAmounts {
		if !m.IsPositive() {
			return fmt.Errorf("%w: SIM_PURCHASE_AMOUNTS must be positive, got %s", ErrInvalidConfig, m)
		}
	}
	return nil
}

// Default returns the configuration used when no environment is set.
func Default() *App {
	return &App{
		Env: "development",
		Log: &Log{
			Format:     "text",
			TimeFormat: "15:04:05.000",
			Prefix:     "[simulator]",
		},
		Simulation: &Simulation{
			Clients:          5,
			Stores:           2,
			Employees:        4,
			ClientBalance:    1000,
			Salary:           1400,
			InvestmentRate:   decimal.RequireFromString("0.2"),
			PurchaseAmounts:  Amounts{money.New(100), money.New(200)},
			MaxPurchaseDelay: time.Second,
			PayrollInterval:  5 * time.Second,
			EventBuffer:      1024,
			ConsoleColor:     true,
		},
	}
}
