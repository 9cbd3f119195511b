// Package logger owns the process root zerolog logger and the context aware children derived from it
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"diffjar/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger
type Options struct {
	Level        string
	Format       string
	Service      string
	Component    string
	Writer       io.Writer
	WithCaller   bool
	SampleEvery  int
	StaticFields map[string]string

	// File enables a rotating JSON sink next to the primary writer
	File           string
	FileMaxMB      int
	FileBackups    int
	FileMaxAgeDays int
}

// FromEnv reads LOG_* without going through config, which logs
func FromEnv() Options {
	rc := raw.Env("LOG_")
	return Options{
		Level:          strings.ToLower(rc.String("LEVEL", "debug")),
		Format:         strings.ToLower(rc.String("FORMAT", "console")),
		Service:        rc.String("SERVICE", ""),
		Component:      rc.String("COMPONENT", ""),
		WithCaller:     rc.Bool("CALLER", false),
		SampleEvery:    rc.Count("SAMPLE_EVERY", 0),
		File:           rc.String("FILE", ""),
		FileMaxMB:      rc.Count("FILE_MAX_MB", 100),
		FileBackups:    rc.Count("FILE_BACKUPS", 3),
		FileMaxAgeDays: rc.Count("FILE_MAX_AGE_DAYS", 28),
	}
}

// Logger is the project wide logging type
type Logger = zerolog.Logger

var (
	once sync.Once
	root atomic.Pointer[zerolog.Logger]
)

// Get returns the root logger, configured from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Init builds the root logger, only the first call has any effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := opt.build()
		root.Store(&l)
	})
}

func (opt Options) build() zerolog.Logger {
	fields := map[string]string{"service": opt.Service, "component": opt.Component}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fields["go_version"] = bi.GoVersion
	}
	for k, v := range opt.StaticFields {
		fields[k] = v
	}

	with := zerolog.New(opt.sink()).Level(levelOf(opt.Level)).With().Timestamp()
	for k, v := range fields {
		if v != "" {
			with = with.Str(k, v)
		}
	}
	if opt.WithCaller {
		with = with.Caller()
	}
	l := with.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

// sink is Writer, or stdout, optionally pretty printed and teed into a rotating JSON file
func (opt Options) sink() io.Writer {
	out := opt.Writer
	if out == nil {
		out = os.Stdout
	}
	if opt.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	if opt.File == "" {
		return out
	}
	return zerolog.MultiLevelWriter(out, &lumberjack.Logger{
		Filename:   opt.File,
		MaxSize:    opt.FileMaxMB,
		MaxBackups: opt.FileBackups,
		MaxAge:     opt.FileMaxAgeDays,
		Compress:   true,
	})
}

// levelOf falls back to debug for blank or unknown names, "warning" is accepted for warn
func levelOf(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" || lvl == zerolog.NoLevel {
		return zerolog.DebugLevel
	}
	return lvl
}

type ctxKey struct{ name string }

var (
	keyRequestID = ctxKey{"req_id"}
	keyDiffID    = ctxKey{"diff_id"}
)

// WithRequest annotates ctx with the request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyRequestID, reqID)
}

// WithDiff annotates ctx with the comparison a unit of work belongs to
func WithDiff(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, keyDiffID, id)
}

// C returns a child logger enriched from ctx (request_id, diff_id)
func C(ctx context.Context) *Logger {
	builder := Get().With()
	if s, ok := ctx.Value(keyRequestID).(string); ok && s != "" {
		builder = builder.Str("request_id", s)
	}
	if id, ok := ctx.Value(keyDiffID).(int64); ok {
		builder = builder.Int64("diff_id", id)
	}
	ll := builder.Logger()
	return &ll
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	ll := Get().With().Str("component", component).Logger()
	return &ll
}
