package store

import (
	"time"

	"diffjar/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string
	PG      PGConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// ConnectRetries bounds the boot ping loop, 0 means 20
	ConnectRetries int
	// PingTimeout bounds each boot ping, 0 means 3s
	PingTimeout time.Duration
}

// FromConfig reads SERVICE_PGSQL_*, postgres is enabled when a url is set
func FromConfig(cfg config.Conf) Config {
	c := cfg.Prefix("SERVICE_PGSQL_")
	url := c.MayString("DBURL", "")
	return Config{
		AppName: cfg.MayString("APP_NAME", "diffjar"),
		PG: PGConfig{
			Enabled:        url != "",
			URL:            url,
			MaxConns:       int32(c.MayInt("MAX_CONNS", 8)),
			LogSQL:         c.MayBool("LOG_SQL", false),
			SlowQueryMs:    c.MayInt("SLOW_MS", 200),
			ConnectRetries: c.MayInt("CONNECT_RETRIES", 20),
			PingTimeout:    c.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
	}
}
