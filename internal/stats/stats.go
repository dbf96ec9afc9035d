// Package stats records driver scan reports. A Recorder is plugged into
// driver.Options.OnScan through Hook
package stats

import (
	"context"

	"github.com/judell/word-replacer/internal/driver"
	"github.com/judell/word-replacer/internal/platform/logger"
)

// Recorder consumes scan reports. Record must not block for long; it runs on
// the scanning goroutine
type Recorder interface {
	Record(ctx context.Context, r driver.Report)
}

// Hook adapts r to driver.Options.OnScan
func Hook(r Recorder) func(context.Context, driver.Report) {
	if r == nil {
		r = Nop{}
	}
	return r.Record
}

// Nop drops every report
type Nop struct{}

// Record implements Recorder
func (Nop) Record(context.Context, driver.Report) {}

// Log writes one structured line per scan. Scans that changed nothing are
// logged at debug, the rest at info
type Log struct {
	log *logger.Logger
}

// NewLog returns a Log recorder on l (nil means the "stats" component logger)
func NewLog(l *logger.Logger) *Log {
	if l == nil {
		l = logger.Named("stats")
	}
	return &Log{log: l}
}

// Record implements Recorder
func (l *Log) Record(ctx context.Context, r driver.Report) {
	ev := l.log.Debug()
	if r.Changed > 0 || r.Skipped > 0 {
		ev = l.log.Info()
	}
	ev.Ctx(ctx).
		Str("scan_id", r.ScanID).
		Str("trigger", string(r.Trigger)).
		Int("nodes", r.Nodes).
		Int("candidates", r.Candidates).
		Int("changed", r.Changed).
		Int("skipped", r.Skipped).
		Int("replacements", r.Replacements).
		Dur("elapsed", r.Elapsed).
		Msg("scan")
}

// Multi fans a report out to several recorders in order
type Multi []Recorder

// Record implements Recorder
func (m Multi) Record(ctx context.Context, r driver.Report) {
	for _, x := range m {
		if x != nil {
			x.Record(ctx, r)
		}
	}
}
