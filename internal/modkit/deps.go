// Package modkit provides module wiring and core deps
package modkit

import (
	"diffjar/internal/modkit/repokit"
	"diffjar/internal/platform/config"
	"diffjar/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// every field may be zero, modules fall back to process defaults
type Deps struct {
	Log *logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
}

// Logger returns a component logger derived from Log, or from the root logger when Log is nil
func (d Deps) Logger(component string) *logger.Logger {
	if d.Log == nil {
		return logger.Named(component)
	}
	ll := d.Log.With().Str("component", component).Logger()
	return &ll
}
