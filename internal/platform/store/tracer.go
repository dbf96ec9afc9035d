package store

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/judell/word-replacer/internal/platform/logger"
)

// QueryEvent describes one SQL statement
type QueryEvent struct {
	Dialect   Dialect
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer observes SQL statements
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer returns a tracer that always prints SQL, independent of the
// process-wide root level
func Tracer(root logger.Logger) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "sql").Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	evt.Str("dialect", string(ev.Dialect)).
		Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("sql query")
}

// compact folds runs of whitespace into single spaces
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// traceHook stamps timing and slowness onto events for one backend
type traceHook struct {
	tracer  QueryTracer
	dialect Dialect
	slowUS  int64
}

func (h traceHook) emit(ctx context.Context, sql string, args []any, elapsedUS int64, err error) {
	if h.tracer == nil {
		return
	}
	h.tracer.OnQuery(ctx, QueryEvent{
		Dialect:   h.dialect,
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      h.slowUS > 0 && elapsedUS >= h.slowUS,
	})
}
