// Package service runs the diff pipeline: ingest, pairing and compute
package service

import (
	"context"
	"sync"
	"sync/atomic"

	perr "diffjar/internal/platform/errors"
	"diffjar/internal/platform/logger"
	dom "diffjar/internal/services/diff/domain"
)

// Service is the pipeline surface exposed through module ports
type Service interface {
	dom.PipelinePort
	dom.WorkerPort
}

// Config controls the pipeline
type Config struct {
	// MaxSourceBytes rejects larger sources at ingest, 0 disables the check
	MaxSourceBytes int
	// FaultBuffer sizes the Faults channel, faults beyond it are only logged
	FaultBuffer int
	// Timeouts bounds each delivery per stage
	Timeouts Timeouts
}

// Svc wires storage, queue and algorithm into the two consumer stages
type Svc struct {
	cfg   Config
	store dom.Storage
	queue dom.Queue

	src *SourceConsumer
	rdy *ReadyConsumer

	faults  chan dom.Fault
	started chan struct{}
	running atomic.Bool
	once    sync.Once
}

var _ Service = (*Svc)(nil)

// New constructs the pipeline
func New(cfg Config, store dom.Storage, queue dom.Queue, algo dom.Algorithm) *Svc {
	if store == nil {
		panic("diff.Service requires a non nil Storage")
	}
	if queue == nil {
		panic("diff.Service requires a non nil Queue")
	}
	if algo == nil {
		algo = Binary{}
	}
	if cfg.FaultBuffer <= 0 {
		cfg.FaultBuffer = 64
	}
	return &Svc{
		cfg:     cfg,
		store:   store,
		queue:   queue,
		src:     NewSourceConsumer(store, queue),
		rdy:     NewReadyConsumer(store, algo),
		faults:  make(chan dom.Fault, cfg.FaultBuffer),
		started: make(chan struct{}),
	}
}

// AddSource enqueues one side for pairing and returns without waiting for it
func (s *Svc) AddSource(ctx context.Context, id dom.DiffID, src dom.SourceContent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if src.Side != dom.SideLeft && src.Side != dom.SideRight {
		return perr.InvalidArgf("unknown source side %d", uint8(src.Side))
	}
	if s.cfg.MaxSourceBytes > 0 && len(src.Data) > s.cfg.MaxSourceBytes {
		return perr.Newf(perr.ErrorCodeValidation, "data must be at most %d bytes", s.cfg.MaxSourceBytes)
	}
	if src.Data == nil {
		src.Data = []byte{}
	}
	s.queue.PublishSource(dom.SourceEnvelope{DiffID: id, Data: src})
	logger.C(ctx).Debug().Stringer("diff_id", id).Stringer("side", src.Side).Int("bytes", len(src.Data)).Msg("source enqueued")
	return nil
}

// FindDiff returns the diff and its readiness, diff is nil unless Ready
func (s *Svc) FindDiff(ctx context.Context, id dom.DiffID) (*dom.DifferenceContent, dom.Readiness, error) {
	return s.store.LoadDiff(ctx, id)
}

// Run subscribes both stages and blocks until they stop
// it returns ctx.Err() after cancellation
func (s *Svc) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return perr.Conflictf("diff pipeline already running")
	}
	defer s.running.Store(false)

	log := logger.Named("diff-pipeline")
	srcIn := s.queue.SubscribeSources(ctx)
	rdyIn := s.queue.SubscribeReady(ctx)
	s.once.Do(func() { close(s.started) })
	log.Info().Msg("pipeline running")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		runKeyed(ctx, srcIn, dom.StageSource, envID[dom.SourceContent], withBudget(s.cfg.Timeouts.Source, s.src.Handle), s.fault)
	}()
	go func() {
		defer wg.Done()
		runKeyed(ctx, rdyIn, dom.StageReady, envID[[]dom.SourceContent], withBudget(s.cfg.Timeouts.Ready, s.rdy.Handle), s.fault)
	}()
	wg.Wait()

	log.Info().Msg("pipeline stopped")
	return ctx.Err()
}

// Started is closed once Run has subscribed both stages
func (s *Svc) Started() <-chan struct{} { return s.started }

// Faults reports consumer failures, the channel is never closed
func (s *Svc) Faults() <-chan dom.Fault { return s.faults }

func (s *Svc) fault(f dom.Fault) {
	select {
	case s.faults <- f:
	default:
		logger.Named("diff-pipeline").Warn().Err(f.Err).Stringer("diff_id", f.DiffID).Msg("fault buffer full, dropping")
	}
}

func envID[T any](e dom.Envelope[T]) dom.DiffID { return e.DiffID }
