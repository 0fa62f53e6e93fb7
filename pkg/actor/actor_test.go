package actor_test

import (
	"io"
	"log/slog"
	"testing"

	infraeventbus "github.com/amirasaad/marketsim/infra/eventbus"
	"github.com/amirasaad/marketsim/pkg/domain/account"
	"github.com/amirasaad/marketsim/pkg/money"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBus() *infraeventbus.MemoryEventBus {
	return infraeventbus.NewWithMemory(testLogger())
}

func newAccount(t *testing.T, owner string, kind account.Kind, balance int64) *account.Account {
	t.Helper()
	return account.New().WithOwner(owner).WithKind(kind).WithBalance(money.New(balance)).MustBuild()
}
