//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"diffjar/internal/platform/logger"
	"diffjar/internal/platform/store"
	dom "diffjar/internal/services/diff/domain"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "diffjar",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/diffjar?sslmode=disable", host, port.Port())
}

func TestPG_StorageContract_Integration(t *testing.T) {
	dsn := startPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st, err := store.Open(ctx, store.Config{
		AppName: "diffjar-repo-integration",
		PG:      store.PGConfig{Enabled: true, URL: dsn, MaxConns: 4},
	}, store.WithLogger(*logger.Get()))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	if err := EnsureSchema(ctx, st.PG); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	// idempotent
	if err := EnsureSchema(ctx, st.PG); err != nil {
		t.Fatalf("EnsureSchema twice: %v", err)
	}

	s := NewPG().Bind(st.PG)

	if _, rd, err := s.LoadDiff(ctx, 7); err != nil || rd != dom.NotFound {
		t.Fatalf("empty LoadDiff got %s err=%v", rd, err)
	}
	if _, ok, err := s.LoadSource(ctx, 7, dom.SideLeft); err != nil || ok {
		t.Fatalf("empty LoadSource ok=%v err=%v", ok, err)
	}

	if err := s.SaveSource(ctx, 7, dom.SourceContent{Data: []byte("12345"), Side: dom.SideLeft}); err != nil {
		t.Fatalf("SaveSource: %v", err)
	}
	if _, rd, _ := s.LoadDiff(ctx, 7); rd != dom.NotReady {
		t.Fatalf("after one source got %s want not_ready", rd)
	}
	got, ok, err := s.LoadSource(ctx, 7, dom.SideLeft)
	if err != nil || !ok || string(got.Data) != "12345" {
		t.Fatalf("LoadSource got %q ok=%v err=%v", got.Data, ok, err)
	}

	// empty payloads are still present
	if err := s.SaveSource(ctx, 8, dom.SourceContent{Side: dom.SideRight}); err != nil {
		t.Fatalf("SaveSource empty: %v", err)
	}
	if got, ok, _ := s.LoadSource(ctx, 8, dom.SideRight); !ok || len(got.Data) != 0 {
		t.Fatalf("empty source got %q ok=%v", got.Data, ok)
	}

	want := dom.DifferenceContent{Type: dom.DiffDetailed, Details: []dom.DifferenceDetail{
		{LeftOffset: 1, LeftLength: 2, RightOffset: 1, RightLength: 2},
		{LeftOffset: 4, LeftLength: 1, RightOffset: 4, RightLength: 1},
	}}
	if err := s.SaveDiff(ctx, 7, want); err != nil {
		t.Fatalf("SaveDiff: %v", err)
	}
	diff, rd, err := s.LoadDiff(ctx, 7)
	if err != nil || rd != dom.Ready {
		t.Fatalf("LoadDiff got %s err=%v", rd, err)
	}
	if diff.Type != want.Type || len(diff.Details) != 2 || diff.Details[1] != want.Details[1] {
		t.Fatalf("LoadDiff got %+v want %+v", diff, want)
	}

	// overwrite keeps a single result row
	if err := s.SaveDiff(ctx, 7, dom.DifferenceContent{Type: dom.DiffEqual}); err != nil {
		t.Fatalf("SaveDiff overwrite: %v", err)
	}
	if diff, _, _ := s.LoadDiff(ctx, 7); diff.Type != dom.DiffEqual || len(diff.Details) != 0 {
		t.Fatalf("overwrite got %+v", diff)
	}
}
