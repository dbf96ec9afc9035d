package stats

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/judell/word-replacer/internal/driver"
	"github.com/judell/word-replacer/internal/platform/store"
)

type fakeCH struct {
	mu      sync.Mutex
	execs   []string
	inserts map[string][][]any
	execErr error
	insErr  error
}

var _ store.Clickhouse = (*fakeCH)(nil)

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, sql)
	return f.execErr
}

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insErr != nil {
		return f.insErr
	}
	if f.inserts == nil {
		f.inserts = map[string][][]any{}
	}
	f.inserts[table] = append(f.inserts[table], rows...)
	return nil
}

func (f *fakeCH) Ping(context.Context) error { return nil }

func (f *fakeCH) Close() error { return nil }

func (f *fakeCH) rows(table string) [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inserts[table]
}

func report(id string, changed int) driver.Report {
	return driver.Report{
		ScanID:       id,
		Trigger:      driver.TriggerChange,
		Nodes:        3,
		Candidates:   2,
		Changed:      changed,
		Replacements: changed * 2,
		Elapsed:      1500 * time.Microsecond,
	}
}

func TestLog_Record(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.DebugLevel)
	rec := NewLog(&l)

	rec.Record(context.Background(), report("s-1", 0))
	rec.Record(context.Background(), report("s-2", 1))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d: %s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"level":"debug"`) || !strings.Contains(lines[0], `"scan_id":"s-1"`) {
		t.Fatalf("unchanged scan line = %s", lines[0])
	}
	if !strings.Contains(lines[1], `"level":"info"`) || !strings.Contains(lines[1], `"trigger":"change"`) {
		t.Fatalf("changed scan line = %s", lines[1])
	}
}

func TestHook_NilIsNop(t *testing.T) {
	Hook(nil)(context.Background(), report("x", 1))
}

func TestMulti(t *testing.T) {
	var got []string
	rec := recorderFunc(func(_ context.Context, r driver.Report) { got = append(got, r.ScanID) })
	Multi{rec, nil, rec}.Record(context.Background(), report("m", 0))
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
}

type recorderFunc func(context.Context, driver.Report)

func (f recorderFunc) Record(ctx context.Context, r driver.Report) { f(ctx, r) }

func TestClickHouse_BatchesAndFlushes(t *testing.T) {
	ctx := context.Background()
	f := &fakeCH{}
	c, err := NewClickHouse(ctx, f, ClickHouseOptions{BatchSize: 2})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if len(f.execs) != 1 || !strings.Contains(f.execs[0], "CREATE TABLE IF NOT EXISTS scan_reports") {
		t.Fatalf("ddl = %v", f.execs)
	}
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	c.Record(ctx, report("a", 1))
	if c.Pending() != 1 || len(f.rows(reportsTable)) != 0 {
		t.Fatalf("first report should stay buffered")
	}
	c.Record(ctx, report("b", 0))
	rows := f.rows(reportsTable)
	if c.Pending() != 0 || len(rows) != 2 {
		t.Fatalf("batch of 2 should flush; pending=%d rows=%d", c.Pending(), len(rows))
	}

	r := rows[0]
	if len(r) != 9 {
		t.Fatalf("row width = %d", len(r))
	}
	if r[0].(time.Time) != fixed || r[1].(string) != "a" || r[2].(string) != "change" {
		t.Fatalf("row head = %v", r[:3])
	}
	if r[5].(uint32) != 1 || r[7].(uint32) != 2 || r[8].(uint64) != 1500 {
		t.Fatalf("row counters = %v", r[3:])
	}

	if err := c.Flush(ctx); err != nil {
		t.Fatalf("empty flush: %v", err)
	}
}

func TestClickHouse_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := NewClickHouse(ctx, &fakeCH{execErr: errors.New("ddl")}, ClickHouseOptions{}); err == nil {
		t.Fatalf("ddl failure should surface")
	}

	f := &fakeCH{insErr: errors.New("down")}
	c, err := NewClickHouse(ctx, f, ClickHouseOptions{BatchSize: 10})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c.Record(ctx, report("a", 1))
	if err := c.Flush(ctx); err == nil {
		t.Fatalf("insert failure should surface from Flush")
	}
	if c.Pending() != 0 {
		t.Fatalf("failed batch is dropped")
	}
}

func TestClickHouse_RunFlushesOnCancel(t *testing.T) {
	f := &fakeCH{}
	c, err := NewClickHouse(context.Background(), f, ClickHouseOptions{BatchSize: 100, FlushEvery: time.Hour})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c.Record(context.Background(), report("late", 1))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return")
	}
	if len(f.rows(reportsTable)) != 1 {
		t.Fatalf("final flush missing")
	}
}
