// @title         Diffjar API
// @version       0.1.0
// @description   Upload left and right sources and fetch their binary difference

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"diffjar/internal/modkit"
	"diffjar/internal/modkit/module"
	"diffjar/internal/modkit/repokit"
	"diffjar/internal/platform/config"
	"diffjar/internal/platform/logger"
	phttp "diffjar/internal/platform/net/http"
	"diffjar/internal/platform/net/middleware"
	"diffjar/internal/platform/store"

	"diffjar/internal/services/api"
	metahttp "diffjar/internal/services/api/meta/http"
	dom "diffjar/internal/services/diff/domain"
	diffmod "diffjar/internal/services/diff/module"

	"github.com/go-chi/chi/v5"
)

func main() {
	logger.Init(logger.FromEnv())
	l := logger.Get()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// postgres is opened only when configured, disk storage needs nothing
	st, err := store.Open(ctx, store.FromConfig(root), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	diff, err := diffmod.New(modkit.Deps{Log: l, Cfg: root, PG: st.PG}, diffmod.Options{})
	if err != nil {
		l.Panic().Err(err).Msg("diff module failed")
	}

	var wg sync.WaitGroup
	workerCtx, stopWorker := context.WithCancel(context.Background())
	wg.Add(2)
	go func() {
		defer wg.Done()
		for {
			select {
			case f := <-diff.Faults():
				l.Error().Err(f.Err).Str("stage", string(f.Stage)).Int64("diff_id", int64(f.DiffID)).Msg("pipeline fault")
			case <-workerCtx.Done():
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		if err := module.MustPortsOf[dom.WorkerPort](diff).Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			l.Error().Err(err).Msg("pipeline worker stopped")
		}
	}()
	<-diff.Started()

	checks := []metahttp.Check{{Name: "storage", Pinger: diff.StoragePinger()}}
	if p, ok := st.PG.(store.Pinger); ok {
		checks = append(checks, metahttp.Check{Name: "postgres", Pinger: p})
	}

	srv := phttp.NewServer(apiCfg, func(m *chi.Mux) {
		m.Use(middleware.Heartbeat("/health"))
	})
	api.Mount(srv.Router(), api.Options{
		Config:         root,
		Diff:           diff,
		Checks:         checks,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	// Run returns once ctx ends and in-flight requests drained, or when the listener fails
	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}

	// consumers stop before the queue closes
	stopWorker()
	diff.Close()
	wg.Wait()
	l.Info().Msg("bye")
}
