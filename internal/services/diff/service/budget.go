package service

import (
	"context"
	"time"
)

// Timeouts bounds a single delivery per consumer stage
// zero means no limit beyond the worker context
type Timeouts struct {
	// Source caps storing one side and checking for its pair
	Source time.Duration
	// Ready caps loading both sides, comparing and saving the diff
	Ready time.Duration
}

// Remaining returns the time until the deadline on ctx or zero when none is set or already expired
func Remaining(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
	}
	return 0
}

// withBudget wraps handle so each call runs under its own timeout
func withBudget[T any](d time.Duration, handle func(context.Context, T) error) func(context.Context, T) error {
	if d <= 0 {
		return handle
	}
	return func(ctx context.Context, v T) error {
		cctx, cancel := withChildTimeout(ctx, d)
		defer cancel()
		return handle(cctx, v)
	}
}

// withChildTimeout picks the tighter of d and the parent remainder, never extending the parent
func withChildTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if rem := Remaining(parent); rem > 0 && rem < d {
		return context.WithTimeout(parent, rem)
	}
	return context.WithTimeout(parent, d)
}
