// Package store opens the optional postgres backend and hands it out behind small interfaces
package store

import (
	"context"
	"errors"
	"fmt"

	"diffjar/internal/platform/logger"
)

// Row is a single row result
type Row interface {
	Scan(dest ...any) error
}

// CommandTag reports what a statement did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// Querier is the statement surface repos use
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner is a Querier that can also run fn inside one transaction
// fn returning an error rolls the transaction back
type TxRunner interface {
	Querier
	Tx(ctx context.Context, fn func(q Querier) error) error
}

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// Store holds the backends a process opened, a nil PG means postgres is off
// the zero Log discards
type Store struct {
	Log logger.Logger
	PG  TxRunner
}

// Option adjusts a Store before backends open
type Option func(*Store)

// WithLogger sets the logger backends log through
func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.Log = l }
}

// connect is swapped in tests that have no server
var connect = connectPG

// Open opens the backends cfg enables
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		o(s)
	}
	if !cfg.PG.Enabled {
		return s, nil
	}
	db, err := connect(ctx, cfg, s.Log)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	s.PG = db
	return s, nil
}

// Guard pings every open backend
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store not opened")
	}
	if p, ok := s.PG.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
	}
	return nil
}

// Close releases every open backend
func (s *Store) Close(context.Context) error {
	if s == nil || s.PG == nil {
		return nil
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
