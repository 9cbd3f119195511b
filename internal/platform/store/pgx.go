package store

import (
	"context"
	"time"

	"diffjar/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is what a pool and a transaction have in common
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgxPool is the part of *pgxpool.Pool the store needs
type pgxPool interface {
	pgxQuerier
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// traced runs statements on q and reports each one to tr when set
type traced struct {
	q  pgxQuerier
	tr pg.Tracer
}

func (t traced) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := t.q.Exec(ctx, sql, args...)
	t.report(ctx, sql, args, start, err)
	return ct, err
}

// QueryRow reports once the row is scanned, the scan error is the statement error
func (t traced) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	return scanned{Row: t.q.QueryRow(ctx, sql, args...), done: func(err error) {
		t.report(ctx, sql, args, start, err)
	}}
}

func (t traced) report(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if t.tr == nil {
		return
	}
	t.tr.Traced(ctx, pg.Statement{SQL: sql, Args: args, Took: time.Since(start), Err: err})
}

type scanned struct {
	pgx.Row
	done func(error)
}

func (s scanned) Scan(dest ...any) error {
	err := s.Row.Scan(dest...)
	s.done(err)
	return err
}

// pgDB is the TxRunner handed to repos
type pgDB struct {
	traced
	pool pgxPool
}

func newPGDB(pool pgxPool, tr pg.Tracer) *pgDB {
	return &pgDB{traced: traced{q: pool, tr: tr}, pool: pool}
}

func (db *pgDB) Tx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(traced{q: tx, tr: db.tr}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (db *pgDB) Ping(ctx context.Context) error { return db.pool.Ping(ctx) }

func (db *pgDB) Close() error {
	db.pool.Close()
	return nil
}
