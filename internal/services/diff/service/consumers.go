package service

import (
	"context"

	"diffjar/internal/platform/logger"
	dom "diffjar/internal/services/diff/domain"
)

// SourceConsumer pairs incoming sources
// the first side of an id is stored, the second is matched against it and published as ready
type SourceConsumer struct {
	store dom.Storage
	pub   dom.Publisher
}

// NewSourceConsumer builds the pairing stage
func NewSourceConsumer(store dom.Storage, pub dom.Publisher) *SourceConsumer {
	return &SourceConsumer{store: store, pub: pub}
}

// Handle processes one incoming source
func (c *SourceConsumer) Handle(ctx context.Context, env dom.SourceEnvelope) error {
	side := env.Data.Side
	other, ok, err := c.store.LoadSource(ctx, env.DiffID, side.Opposite())
	if err != nil {
		return err
	}
	if !ok {
		return c.store.SaveSource(ctx, env.DiffID, env.Data)
	}
	logger.C(ctx).Debug().Stringer("side", side).Msg("sources paired")
	c.pub.PublishReady(dom.ReadyEnvelope{
		DiffID: env.DiffID,
		Data:   []dom.SourceContent{env.Data, other},
	})
	return nil
}

// ReadyConsumer computes and stores the diff for a matched pair
type ReadyConsumer struct {
	store dom.Storage
	algo  dom.Algorithm
}

// NewReadyConsumer builds the compute stage
func NewReadyConsumer(store dom.Storage, algo dom.Algorithm) *ReadyConsumer {
	return &ReadyConsumer{store: store, algo: algo}
}

// Handle processes one matched pair
func (c *ReadyConsumer) Handle(ctx context.Context, env dom.ReadyEnvelope) error {
	diff, err := c.algo.Compare(env.Data)
	if err != nil {
		return err
	}
	if err := c.store.SaveDiff(ctx, env.DiffID, diff); err != nil {
		return err
	}
	logger.C(ctx).Debug().
		Str("type", string(diff.Type)).
		Int("details", len(diff.Details)).
		Msg("diff stored")
	return nil
}
