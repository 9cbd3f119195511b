package store

import (
	"context"
	"fmt"
	"time"

	"diffjar/internal/platform/logger"
	"diffjar/internal/platform/store/pg"
)

// connectPG builds the pool and waits for the server to answer before returning it
// the wait backs off from 150ms doubling up to 2s
func connectPG(ctx context.Context, cfg Config, log logger.Logger) (TxRunner, error) {
	pool, err := pg.Pool(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		AppName:  cfg.AppName,
	}, nil)
	if err != nil {
		return nil, err
	}
	var tr pg.Tracer
	if cfg.PG.LogSQL {
		tr = pg.LogTracer(log, time.Duration(cfg.PG.SlowQueryMs)*time.Millisecond)
	}
	db := newPGDB(pool, tr)

	tries := cfg.PG.ConnectRetries
	if tries <= 0 {
		tries = 20
	}
	perTry := cfg.PG.PingTimeout
	if perTry <= 0 {
		perTry = 3 * time.Second
	}
	wait := 150 * time.Millisecond

	for n := 1; ; n++ {
		err = pingWithin(ctx, db, perTry)
		if err == nil {
			return db, nil
		}
		if n == tries {
			break
		}
		log.Warn().Err(err).Int("attempt", n).Dur("retry_in", wait).Msg("postgres not ready")
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait = min(2*wait, 2*time.Second)
	}
	pool.Close()
	return nil, fmt.Errorf("no answer after %d pings: %w", tries, err)
}

func pingWithin(ctx context.Context, p Pinger, d time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return p.Ping(ctx)
}
