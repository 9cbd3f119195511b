package http_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"diffjar/internal/platform/config"
	phttp "diffjar/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestNewServer_DefaultAddrAndOptions(t *testing.T) {
	t.Setenv("SRVTEST_ADDR", "")
	called := false
	srv := phttp.NewServer(config.New().Prefix("SRVTEST_"), func(*chi.Mux) { called = true })
	if !called {
		t.Fatalf("options must run")
	}
	if srv.Addr() != ":4000" {
		t.Fatalf("default addr got %q", srv.Addr())
	}
}

func TestServer_RunServesAndDrainsOnCancel(t *testing.T) {
	t.Setenv("SRVTEST_ADDR", "127.0.0.1:0")
	t.Setenv("SRVTEST_SHUTDOWN_GRACE", "2s")
	srv := phttp.NewServer(config.New().Prefix("SRVTEST_"), func(m *chi.Mux) {
		m.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Root", "yes")
				next.ServeHTTP(w, r)
			})
		})
	})
	srv.Router().Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	select {
	case <-srv.Ready():
	case <-time.After(2 * time.Second):
		t.Fatalf("listener never bound")
	}

	res, err := http.Get("http://" + srv.Addr() + "/ping")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(res.Body)
	_ = res.Body.Close()
	if res.StatusCode != http.StatusOK || string(body) != "pong" || res.Header.Get("X-Root") != "yes" {
		t.Fatalf("got %d %q %q", res.StatusCode, body, res.Header.Get("X-Root"))
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("run did not return after cancel")
	}
}

func TestServer_RunFailsOnBadAddr(t *testing.T) {
	t.Setenv("SRVTEST_ADDR", "127.0.0.1:notaport")
	srv := phttp.NewServer(config.New().Prefix("SRVTEST_"))
	if err := srv.Run(context.Background()); err == nil {
		t.Fatalf("expected listen error")
	}
}

func TestServer_ShutdownEndsRun(t *testing.T) {
	t.Setenv("SRVTEST_ADDR", "127.0.0.1:0")
	srv := phttp.NewServer(config.New().Prefix("SRVTEST_"))
	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()
	<-srv.Ready()

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not return after shutdown")
	}
}
