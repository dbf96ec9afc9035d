package stats

import (
	"context"
	"sync"
	"time"

	"github.com/judell/word-replacer/internal/driver"
	"github.com/judell/word-replacer/internal/platform/logger"
	"github.com/judell/word-replacer/internal/platform/store"
)

const reportsTable = "scan_reports"

const createReports = `
CREATE TABLE IF NOT EXISTS scan_reports (
	recorded_at  DateTime64(3, 'UTC'),
	scan_id      String,
	trigger      LowCardinality(String),
	nodes        UInt32,
	candidates   UInt32,
	changed      UInt32,
	skipped      UInt32,
	replacements UInt32,
	elapsed_us   UInt64
) ENGINE = MergeTree
ORDER BY (recorded_at, scan_id)`

// ClickHouseOptions tunes batching
type ClickHouseOptions struct {
	// BatchSize flushes once this many reports are buffered (default 64)
	BatchSize int
	// FlushEvery flushes a partial batch on this period when Run is used (default 5s)
	FlushEvery time.Duration
}

// ClickHouse buffers reports and batch inserts them into scan_reports.
// Insert failures are logged and the batch is dropped
type ClickHouse struct {
	ch   store.Clickhouse
	opts ClickHouseOptions
	log  *logger.Logger
	now  func() time.Time

	mu  sync.Mutex
	buf [][]any
}

// NewClickHouse creates the table if needed and returns the recorder
func NewClickHouse(ctx context.Context, ch store.Clickhouse, opts ClickHouseOptions) (*ClickHouse, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 64
	}
	if opts.FlushEvery <= 0 {
		opts.FlushEvery = 5 * time.Second
	}
	if err := ch.Exec(ctx, createReports); err != nil {
		return nil, err
	}
	return &ClickHouse{
		ch:   ch,
		opts: opts,
		log:  logger.Named("stats.clickhouse"),
		now:  time.Now,
	}, nil
}

// Record implements Recorder
func (c *ClickHouse) Record(ctx context.Context, r driver.Report) {
	row := []any{
		c.now().UTC(),
		r.ScanID,
		string(r.Trigger),
		uint32(r.Nodes),
		uint32(r.Candidates),
		uint32(r.Changed),
		uint32(r.Skipped),
		uint32(r.Replacements),
		uint64(r.Elapsed.Microseconds()),
	}
	c.mu.Lock()
	c.buf = append(c.buf, row)
	full := len(c.buf) >= c.opts.BatchSize
	c.mu.Unlock()

	if full {
		_ = c.Flush(ctx)
	}
}

// Pending returns the number of buffered reports
func (c *ClickHouse) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf)
}

// Flush inserts buffered reports
func (c *ClickHouse) Flush(ctx context.Context) error {
	c.mu.Lock()
	rows := c.buf
	c.buf = nil
	c.mu.Unlock()

	if len(rows) == 0 {
		return nil
	}
	if err := c.ch.Insert(ctx, reportsTable, rows); err != nil {
		c.log.Error().Err(err).Int("rows", len(rows)).Msg("scan report insert failed")
		return err
	}
	c.log.Debug().Int("rows", len(rows)).Msg("scan reports flushed")
	return nil
}

// Run flushes on a ticker until ctx is done, then flushes once more
func (c *ClickHouse) Run(ctx context.Context) {
	t := time.NewTicker(c.opts.FlushEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			// parent is gone; give the final flush its own deadline
			fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			_ = c.Flush(fctx)
			cancel()
			return
		case <-t.C:
			_ = c.Flush(ctx)
		}
	}
}
