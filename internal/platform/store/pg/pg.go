// Package pg builds the pgx pool and the statement tracer used by the store
package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is the pool shape, zero fields keep the pgxpool defaults
type Config struct {
	URL      string
	MaxConns int32
	// AppName is reported as application_name in pg_stat_activity
	AppName string
}

var newPool = pgxpool.NewWithConfig

// Pool parses cfg, lets tweak adjust the result and creates the pool
// the pool connects lazily so a nil error says nothing about reachability
func Pool(ctx context.Context, cfg Config, tweak func(*pgxpool.Config)) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pc.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if tweak != nil {
		tweak(pc)
	}
	return newPool(ctx, pc)
}
