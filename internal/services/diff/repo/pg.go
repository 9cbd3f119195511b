package repo

import (
	"context"
	"encoding/json"
	"errors"

	"diffjar/internal/modkit/repokit"
	perr "diffjar/internal/platform/errors"
	dom "diffjar/internal/services/diff/domain"

	"github.com/jackc/pgx/v5"
)

// Schema is applied by EnsureSchema, every statement is idempotent
const Schema = `
create table if not exists diff_sources (
	diff_id    bigint      not null,
	side       text        not null check (side in ('left', 'right')),
	data       bytea       not null,
	updated_at timestamptz not null default now(),
	primary key (diff_id, side)
);
create table if not exists diff_results (
	diff_id    bigint      primary key,
	body       jsonb       not null,
	updated_at timestamptz not null default now()
);
`

// schemaLock serialises EnsureSchema across processes sharing a database
const schemaLock = 0x6469666a6172

// EnsureSchema creates the diff tables when missing
// concurrent "create if not exists" can still collide in the catalog, so it runs under an advisory lock
func EnsureSchema(ctx context.Context, db repokit.TxRunner) error {
	err := db.Tx(ctx, func(q repokit.Queryer) error {
		if _, err := q.Exec(ctx, "select pg_advisory_xact_lock($1)", int64(schemaLock)); err != nil {
			return err
		}
		_, err := q.Exec(ctx, Schema)
		return err
	})
	return perr.FromPostgres(err, "ensure diff schema")
}

type (
	// PG binds the Postgres storage to a Queryer
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.TxRunner }
)

// NewPG creates a new Postgres storage binder
func NewPG() repokit.Binder[dom.Storage] { return PG{} }

// Bind binds a Postgres queryer to the Storage implementation
func (PG) Bind(q repokit.TxRunner) dom.Storage { return &queries{q: q} }

func (r *queries) SaveSource(ctx context.Context, id dom.DiffID, src dom.SourceContent) error {
	const sql = `
insert into diff_sources (diff_id, side, data)
values ($1, $2, $3)
on conflict (diff_id, side) do update set data = excluded.data, updated_at = now()
`
	data := src.Data
	if data == nil {
		data = []byte{}
	}
	if _, err := r.q.Exec(ctx, sql, int64(id), src.Side.String(), data); err != nil {
		return perr.FromPostgresf(err, "save %s source %s", src.Side, id)
	}
	return nil
}

func (r *queries) LoadSource(ctx context.Context, id dom.DiffID, side dom.SourceSide) (dom.SourceContent, bool, error) {
	const sql = `select data from diff_sources where diff_id = $1 and side = $2`
	var data []byte
	err := r.q.QueryRow(ctx, sql, int64(id), side.String()).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.SourceContent{}, false, nil
	}
	if err != nil {
		return dom.SourceContent{}, false, perr.FromPostgresf(err, "load %s source %s", side, id)
	}
	if data == nil {
		data = []byte{}
	}
	return dom.SourceContent{Data: data, Side: side}, true, nil
}

func (r *queries) SaveDiff(ctx context.Context, id dom.DiffID, diff dom.DifferenceContent) error {
	body, err := json.Marshal(diff)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "encode diff %s", id)
	}
	const sql = `
insert into diff_results (diff_id, body)
values ($1, $2::jsonb)
on conflict (diff_id) do update set body = excluded.body, updated_at = now()
`
	if _, err := r.q.Exec(ctx, sql, int64(id), string(body)); err != nil {
		return perr.FromPostgresf(err, "save diff %s", id)
	}
	return nil
}

// LoadDiff reads the result and source presence in one round trip
func (r *queries) LoadDiff(ctx context.Context, id dom.DiffID) (*dom.DifferenceContent, dom.Readiness, error) {
	const sql = `
select
	(select body::text from diff_results where diff_id = $1),
	exists (select 1 from diff_sources where diff_id = $1)
`
	var (
		body    *string
		sources bool
	)
	if err := r.q.QueryRow(ctx, sql, int64(id)).Scan(&body, &sources); err != nil {
		return nil, dom.NotFound, perr.FromPostgresf(err, "load diff %s", id)
	}
	switch {
	case body != nil:
		var out dom.DifferenceContent
		if err := json.Unmarshal([]byte(*body), &out); err != nil {
			return nil, dom.NotFound, perr.Wrapf(err, perr.ErrorCodeJSON, "decode diff %s", id)
		}
		return &out, dom.Ready, nil
	case sources:
		return nil, dom.NotReady, nil
	default:
		return nil, dom.NotFound, nil
	}
}

// Ping runs a trivial query against the bound connection
func (r *queries) Ping(ctx context.Context) error {
	var one int
	return perr.FromPostgres(r.q.QueryRow(ctx, "select 1").Scan(&one), "ping diff storage")
}
