package pg

import (
	"context"
	"fmt"
	"strings"
	"time"

	"diffjar/internal/platform/logger"

	"github.com/rs/zerolog"
)

// Statement describes one finished statement
type Statement struct {
	SQL  string
	Args []any
	Took time.Duration
	Err  error
}

// Tracer is told about every statement the store runs
type Tracer interface {
	Traced(ctx context.Context, st Statement)
}

// LogTracer logs each statement at info, or at warn once it takes slow or longer
// slow of zero never warns
// statements are logged even when the root level is above info, LOG_SQL is an explicit opt in
func LogTracer(log logger.Logger, slow time.Duration) Tracer {
	return &logTracer{
		log:  log.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger(),
		slow: slow,
	}
}

type logTracer struct {
	log  logger.Logger
	slow time.Duration
}

func (lt *logTracer) Traced(_ context.Context, st Statement) {
	slow := lt.slow > 0 && st.Took >= lt.slow
	ev := lt.log.Info()
	if slow {
		ev = lt.log.Warn()
	}
	ev.Dur("took", st.Took).
		Bool("slow", slow).
		Str("sql", squash(st.SQL)).
		Interface("args", redact(st.Args)).
		Err(st.Err).
		Msg("pg statement")
}

// redact swaps byte payloads for their length so source blobs never reach the log
func redact(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if b, ok := a.([]byte); ok {
			a = fmt.Sprintf("<%d bytes>", len(b))
		}
		out[i] = a
	}
	return out
}

// squash puts a multi line statement on one line
func squash(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}
