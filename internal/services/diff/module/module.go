// Package module wires the diff pipeline and its HTTP surface using modkit
package module

import (
	"context"
	"time"

	"diffjar/internal/modkit"
	"diffjar/internal/modkit/httpkit"
	"diffjar/internal/modkit/repokit"
	perr "diffjar/internal/platform/errors"
	str "diffjar/internal/platform/strings"
	dom "diffjar/internal/services/diff/domain"
	diffhttp "diffjar/internal/services/diff/http"
	"diffjar/internal/services/diff/queue"
	"diffjar/internal/services/diff/repo"
	"diffjar/internal/services/diff/service"
)

// Module implements modkit.Module for the diff pipeline
type Module struct {
	built modkit.Built
	opts  Options

	store dom.Storage
	bus   *queue.Bus
	svc   *service.Svc
	ports Ports
}

// Pinger is a storage backend that can report readiness
type Pinger interface {
	Ping(context.Context) error
}

// New builds storage, queue and pipeline from config, non zero overrides win
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("diff"), modkit.WithPrefix("/diff")}, opts...)...)
	o := FromConfig(deps.Cfg).merge(overrides)

	store, err := openStorage(deps, o)
	if err != nil {
		return nil, err
	}
	retried := repo.WithRetry(store, repo.RetryPolicy{Attempts: o.StoreRetries, Base: o.StoreRetryBase})

	bus := queue.New()
	svc := service.New(service.Config{
		MaxSourceBytes: o.MaxSourceBytes,
		Timeouts:       service.Timeouts{Source: o.SourceTimeout, Ready: o.ReadyTimeout},
	}, retried, bus, service.Binary{})

	m := &Module{built: b, opts: o, store: store, bus: bus, svc: svc}
	m.ports = Ports{Pipeline: svc, Worker: svc}

	deps.Logger("diff").Info().
		Str("driver", o.StoreDriver).
		Str("data_dir", o.DataDir).
		Int("store_retries", o.StoreRetries).
		Msg("diff module ready")
	return m, nil
}

func openStorage(deps modkit.Deps, o Options) (dom.Storage, error) {
	switch o.StoreDriver {
	case DriverPG:
		if deps.PG == nil {
			return nil, perr.InvalidArgf("diff: store driver %q needs a postgres connection", DriverPG)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.EnsureSchema(ctx, deps.PG); err != nil {
			return nil, err
		}
		return repokit.MustBind(repo.NewPG(), deps.PG), nil
	case DriverDisk, "":
		d, err := repo.NewDisk(o.DataDir)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, perr.InvalidArgf("diff: unknown store driver %q", o.StoreDriver)
	}
}

// Ports returns the module ports (Pipeline, Worker)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.built.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Options returns the resolved options
func (m *Module) Options() Options { return m.opts }

// StoragePinger returns the storage backend as a Pinger, nil when it cannot ping
func (m *Module) StoragePinger() Pinger {
	if p, ok := m.store.(Pinger); ok {
		return p
	}
	return nil
}

// Started is closed once the worker has subscribed to the queue
func (m *Module) Started() <-chan struct{} { return m.svc.Started() }

// Faults exposes pipeline consumer failures
func (m *Module) Faults() <-chan dom.Fault { return m.svc.Faults() }

// Close ends queue subscriptions, call after the worker has stopped
func (m *Module) Close() { m.bus.Close() }

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { diffhttp.Register(rr, m.ports.Pipeline, m.opts.MaxSourceBytes) })
}
