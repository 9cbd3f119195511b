package http

import (
	"context"
	"errors"
	"net"
	stdhttp "net/http"
	"sync"
	"time"

	"diffjar/internal/platform/config"
	"diffjar/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server owns the root chi mux and the listener
type Server struct {
	addr  string
	grace time.Duration
	mux   *chi.Mux
	srv   *stdhttp.Server

	mu    sync.Mutex
	bound net.Addr
	ready chan struct{}
}

// NewServer reads ADDR, READ_HEADER_TIMEOUT, IDLE_TIMEOUT and SHUTDOWN_GRACE from cfg
// opts receive the root mux before any route is mounted, which is where global middleware goes
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	s := &Server{
		addr:  cfg.MayString("ADDR", ":4000"),
		grace: cfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second),
		mux:   m,
		ready: make(chan struct{}),
	}
	s.srv = &stdhttp.Server{
		Handler:           m,
		ReadHeaderTimeout: cfg.MayDuration("READ_HEADER_TIMEOUT", 10*time.Second),
		IdleTimeout:       cfg.MayDuration("IDLE_TIMEOUT", 2*time.Minute),
	}
	return s
}

// Router returns the Router facade over the root mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr returns the bound address once Ready is closed, the configured one before
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bound != nil {
		return s.bound.String()
	}
	return s.addr
}

// Ready is closed once the listener is bound
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Run listens and serves until ctx ends, then drains connections for up to the shutdown grace
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.bound = ln.Addr()
	s.mu.Unlock()
	close(s.ready)
	log.Info().Str("addr", ln.Addr().String()).Msg("http listening")

	errc := make(chan error, 1)
	go func() { errc <- s.srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	log.Info().Dur("grace", s.grace).Msg("http draining")
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	<-errc
	return nil
}

// Shutdown stops the server gracefully, Run returns once it is done
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }
