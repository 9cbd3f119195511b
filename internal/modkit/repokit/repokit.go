// Package repokit is what repository implementations share: the store seams and the bind step
package repokit

import (
	"context"
	"fmt"

	"diffjar/internal/platform/store"
)

type (
	// Queryer runs single statements
	Queryer = store.Querier
	// TxRunner also runs transactions
	TxRunner = store.TxRunner
	// Row is a single row result
	Row = store.Row
	// CommandTag reports what a statement did
	CommandTag = store.CommandTag
)

// Binder turns a connection into a repository
type Binder[T any] interface {
	Bind(TxRunner) T
}

// BindFunc adapts a function to Binder
type BindFunc[T any] func(TxRunner) T

// Bind calls f
func (f BindFunc[T]) Bind(db TxRunner) T { return f(db) }

// MustBind binds db and panics when there is no connection to bind
func MustBind[T any](b Binder[T], db TxRunner) T {
	if db == nil {
		panic(fmt.Sprintf("repokit: bind %T to a nil connection", b))
	}
	return b.Bind(db)
}

// MustGuard panics unless every backend of st answers
func MustGuard(ctx context.Context, st interface{ Guard(context.Context) error }) {
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("backends not ready: %w", err))
	}
}
