package domain

import "context"

// Storage persists sources and results by id
type Storage interface {
	SaveSource(ctx context.Context, id DiffID, src SourceContent) error
	// LoadSource reports ok=false when the side was never saved
	LoadSource(ctx context.Context, id DiffID, side SourceSide) (SourceContent, bool, error)
	SaveDiff(ctx context.Context, id DiffID, diff DifferenceContent) error
	// LoadDiff returns the diff only when readiness is Ready
	LoadDiff(ctx context.Context, id DiffID) (*DifferenceContent, Readiness, error)
}

// Algorithm compares a Left and a Right source
type Algorithm interface {
	Compare(sources []SourceContent) (DifferenceContent, error)
}

// Publisher is the producer side of the pipeline queue
type Publisher interface {
	PublishSource(env SourceEnvelope)
	PublishReady(env ReadyEnvelope)
}

// Inbox is one subscription; C closes when its ctx is done or the queue closes
type Inbox[T any] interface {
	ID() string
	C() <-chan T
}

// Subscriber is the consumer side of the pipeline queue
// a subscription sees only messages published after the call returns
type Subscriber interface {
	SubscribeSources(ctx context.Context) Inbox[SourceEnvelope]
	SubscribeReady(ctx context.Context) Inbox[ReadyEnvelope]
}

// Queue is both sides of the pipeline bus
type Queue interface {
	Publisher
	Subscriber
}

// PipelinePort is what transports use to drive the pipeline
type PipelinePort interface {
	AddSource(ctx context.Context, id DiffID, src SourceContent) error
	FindDiff(ctx context.Context, id DiffID) (*DifferenceContent, Readiness, error)
}

// WorkerPort runs the consumers until ctx is done
type WorkerPort interface {
	Run(ctx context.Context) error
}

// Stage names where a Fault happened
type Stage string

const (
	// StageSource is the pairing consumer
	StageSource Stage = "source"
	// StageReady is the compute consumer
	StageReady Stage = "ready"
)

// Fault is a consumer failure that did not stop the pipeline
type Fault struct {
	Stage  Stage
	DiffID DiffID
	Err    error
}
