package repo

import (
	"context"
	"time"

	perr "diffjar/internal/platform/errors"
	"diffjar/internal/platform/logger"
	dom "diffjar/internal/services/diff/domain"
)

// RetryPolicy bounds storage retries, Attempts counts the first try
type RetryPolicy struct {
	Attempts int
	Base     time.Duration
}

// sleep is a seam for tests
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// WithRetry retries transient storage failures with exponential backoff
// a policy of one attempt or less returns inner untouched
func WithRetry(inner dom.Storage, p RetryPolicy) dom.Storage {
	if p.Attempts <= 1 {
		return inner
	}
	return &retrying{inner: inner, p: p}
}

type retrying struct {
	inner dom.Storage
	p     RetryPolicy
}

func (r *retrying) SaveSource(ctx context.Context, id dom.DiffID, src dom.SourceContent) error {
	return r.do(ctx, "save_source", id, func() error { return r.inner.SaveSource(ctx, id, src) })
}

func (r *retrying) LoadSource(ctx context.Context, id dom.DiffID, side dom.SourceSide) (dom.SourceContent, bool, error) {
	var (
		out dom.SourceContent
		ok  bool
	)
	err := r.do(ctx, "load_source", id, func() error {
		var err error
		out, ok, err = r.inner.LoadSource(ctx, id, side)
		return err
	})
	return out, ok, err
}

func (r *retrying) SaveDiff(ctx context.Context, id dom.DiffID, diff dom.DifferenceContent) error {
	return r.do(ctx, "save_diff", id, func() error { return r.inner.SaveDiff(ctx, id, diff) })
}

func (r *retrying) LoadDiff(ctx context.Context, id dom.DiffID) (*dom.DifferenceContent, dom.Readiness, error) {
	var (
		out *dom.DifferenceContent
		rd  dom.Readiness
	)
	err := r.do(ctx, "load_diff", id, func() error {
		var err error
		out, rd, err = r.inner.LoadDiff(ctx, id)
		return err
	})
	return out, rd, err
}

func (r *retrying) do(ctx context.Context, op string, id dom.DiffID, fn func() error) error {
	var err error
	for attempt := 0; attempt < r.p.Attempts; attempt++ {
		if err = fn(); err == nil || !perr.Retryable(err) {
			return err
		}
		if attempt == r.p.Attempts-1 {
			break
		}
		back := backoffFor(attempt, r.p.Base)
		logger.Named("diff-store").Warn().Err(err).
			Str("op", op).
			Stringer("diff_id", id).
			Int("attempt", attempt+1).
			Dur("backoff", back).
			Msg("storage call failed, retrying")
		if serr := sleep(ctx, back); serr != nil {
			return err
		}
	}
	return perr.WithOp(err, op)
}

func backoffFor(attempt int, base time.Duration) time.Duration {
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	attempt = max(0, min(attempt, 16))
	return min(base<<uint(attempt), 30*time.Second)
}
