package module

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"diffjar/internal/platform/config"
)

// Storage drivers
const (
	DriverDisk = "disk"
	DriverPG   = "pg"
)

// Options controls the diff pipeline module
type Options struct {
	DataDir        string
	StoreDriver    string
	StoreRetries   int
	StoreRetryBase time.Duration
	MaxSourceBytes int
	// SourceTimeout and ReadyTimeout bound one delivery of their stage, zero leaves stages unbounded
	SourceTimeout  time.Duration
	ReadyTimeout   time.Duration
}

// FromConfig reads with the DIFF_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("DIFF_")
	return Options{
		DataDir:        c.MayString("DATA_DIR", filepath.Join(os.TempDir(), "diffjar")),
		StoreDriver:    strings.ToLower(c.MayEnum("STORE_DRIVER", DriverDisk, DriverDisk, DriverPG)),
		StoreRetries:   c.MayInt("STORE_RETRIES", 1),
		StoreRetryBase: c.MayDuration("STORE_RETRY_BASE", 100*time.Millisecond),
		MaxSourceBytes: c.MayInt("MAX_SOURCE_BYTES", 16<<20),
		SourceTimeout:  c.MayDuration("SOURCE_TIMEOUT", 0),
		ReadyTimeout:   c.MayDuration("READY_TIMEOUT", 0),
	}
}

// merge applies non zero overrides on top of o
func (o Options) merge(overrides Options) Options {
	if overrides.DataDir != "" {
		o.DataDir = overrides.DataDir
	}
	if overrides.StoreDriver != "" {
		o.StoreDriver = strings.ToLower(overrides.StoreDriver)
	}
	if overrides.StoreRetries != 0 {
		o.StoreRetries = overrides.StoreRetries
	}
	if overrides.StoreRetryBase != 0 {
		o.StoreRetryBase = overrides.StoreRetryBase
	}
	if overrides.MaxSourceBytes != 0 {
		o.MaxSourceBytes = overrides.MaxSourceBytes
	}
	if overrides.SourceTimeout != 0 {
		o.SourceTimeout = overrides.SourceTimeout
	}
	if overrides.ReadyTimeout != 0 {
		o.ReadyTimeout = overrides.ReadyTimeout
	}
	return o
}
