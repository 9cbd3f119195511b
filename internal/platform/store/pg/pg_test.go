package pg

import (
	"context"
	"errors"
	"testing"

	"diffjar/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPool_BadURL(t *testing.T) {
	if _, err := Pool(context.Background(), Config{URL: "://nope"}, nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestPool_AppliesConfigAndTweak(t *testing.T) {
	testkit.Serial(t)
	var seen *pgxpool.Config
	testkit.Swap(t, &newPool, func(_ context.Context, pc *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = pc
		return nil, errors.New("no server in unit tests")
	})

	cfg := Config{URL: "postgres://diff:pw@db:5432/diffjar?sslmode=disable", MaxConns: 6, AppName: "diffjar-api"}
	_, err := Pool(context.Background(), cfg, func(pc *pgxpool.Config) { pc.MinConns = 2 })
	if err == nil {
		t.Fatal("newPool error was dropped")
	}
	if seen == nil {
		t.Fatal("newPool not called")
	}
	if seen.MaxConns != 6 || seen.MinConns != 2 {
		t.Fatalf("pool sizes max=%d min=%d", seen.MaxConns, seen.MinConns)
	}
	if got := seen.ConnConfig.RuntimeParams["application_name"]; got != "diffjar-api" {
		t.Fatalf("application_name = %q", got)
	}
	if seen.ConnConfig.Database != "diffjar" {
		t.Fatalf("database = %q", seen.ConnConfig.Database)
	}
}
