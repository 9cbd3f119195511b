package service

import (
	"context"
	"sync"

	"diffjar/internal/platform/logger"
	dom "diffjar/internal/services/diff/domain"
)

// runKeyed hands each delivery to the worker of its DiffID, started on first use and gone once idle
// one id is handled serially in arrival order, distinct ids run concurrently
// the dispatcher never waits on a handler, so a stuck handler holds up only its own id
// when ctx ends the inbox closes, in flight handlers finish and queued deliveries are dropped
func runKeyed[T any](
	ctx context.Context,
	in dom.Inbox[T],
	stage dom.Stage,
	key func(T) dom.DiffID,
	handle func(context.Context, T) error,
	fault func(dom.Fault),
) {
	log := logger.Named("diff-" + string(stage))

	var mu sync.Mutex
	var wg sync.WaitGroup
	// an entry exists while its worker runs, the slice is what it has not taken yet
	queued := map[dom.DiffID][]T{}

	next := func(id dom.DiffID) (v T, ok bool) {
		mu.Lock()
		defer mu.Unlock()
		q := queued[id]
		if len(q) == 0 {
			delete(queued, id)
			return v, false
		}
		v = q[0]
		clear(q[:1])
		queued[id] = q[1:]
		return v, true
	}

	work := func(id dom.DiffID) {
		for {
			v, ok := next(id)
			if !ok {
				return
			}
			if ctx.Err() != nil {
				continue
			}
			if err := handle(logger.WithDiff(ctx, int64(id)), v); err != nil {
				log.Warn().Err(err).Stringer("diff_id", id).Str("stage", string(stage)).Msg("handler failed")
				fault(dom.Fault{Stage: stage, DiffID: id, Err: err})
			}
		}
	}

	log.Debug().Str("sub_id", in.ID()).Msg("consumer started")
	for v := range in.C() {
		id := key(v)
		mu.Lock()
		q, running := queued[id]
		queued[id] = append(q, v)
		mu.Unlock()
		if !running {
			wg.Go(func() { work(id) })
		}
	}
	wg.Wait()
	log.Debug().Str("sub_id", in.ID()).Msg("consumer stopped")
}

