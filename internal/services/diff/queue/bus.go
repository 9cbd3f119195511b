package queue

import (
	"context"

	"diffjar/internal/platform/logger"
	dom "diffjar/internal/services/diff/domain"
)

// Bus carries the two pipeline topics: incoming sources and matched pairs
type Bus struct {
	sources *Topic[dom.SourceEnvelope]
	ready   *Topic[dom.ReadyEnvelope]
}

var _ dom.Queue = (*Bus)(nil)

// New builds a bus with no subscribers
func New() *Bus {
	return &Bus{
		sources: NewTopic[dom.SourceEnvelope]("sources"),
		ready:   NewTopic[dom.ReadyEnvelope]("ready"),
	}
}

// PublishSource fans a single source out to the pairing consumers
func (b *Bus) PublishSource(env dom.SourceEnvelope) {
	if n := b.sources.Publish(env); n == 0 {
		logger.Named("queue").Debug().Stringer("diff_id", env.DiffID).Msg("source dropped, no subscribers")
	}
}

// PublishReady fans a matched pair out to the compute consumers
func (b *Bus) PublishReady(env dom.ReadyEnvelope) {
	if n := b.ready.Publish(env); n == 0 {
		logger.Named("queue").Debug().Stringer("diff_id", env.DiffID).Msg("ready pair dropped, no subscribers")
	}
}

// SubscribeSources subscribes to incoming sources
func (b *Bus) SubscribeSources(ctx context.Context) dom.Inbox[dom.SourceEnvelope] {
	return b.sources.Subscribe(ctx)
}

// SubscribeReady subscribes to matched pairs
func (b *Bus) SubscribeReady(ctx context.Context) dom.Inbox[dom.ReadyEnvelope] {
	return b.ready.Subscribe(ctx)
}

// Close ends every subscription on both topics
func (b *Bus) Close() {
	b.sources.Close()
	b.ready.Close()
}
