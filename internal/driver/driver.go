// Package driver connects the matcher and rewriter to live documents.
// It owns the Configuration in effect, applies it to text nodes, rescans
// attached documents when they change and swaps in new configurations
// published on its update channel
package driver

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/judell/word-replacer/internal/core/matcher"
	"github.com/judell/word-replacer/internal/core/rewriter"
	"github.com/judell/word-replacer/internal/core/wordmap"
	perr "github.com/judell/word-replacer/internal/platform/errors"
	"github.com/judell/word-replacer/internal/platform/logger"
)

// ConfigStore persists the Configuration between runs
type ConfigStore interface {
	Load(ctx context.Context) (*wordmap.Configuration, error)
	Save(ctx context.Context, cfg *wordmap.Configuration) error
}

// TextNode is one mutable run of text inside a document
type TextNode interface {
	Text() string
	SetText(s string) error
}

// DocumentScope enumerates the text nodes of a document
type DocumentScope interface {
	Nodes() []TextNode
}

// ChangeNotifier signals that a document's content changed and needs a rescan
type ChangeNotifier interface {
	Changes() <-chan struct{}
}

// Suspender is implemented by scopes that can hold back change notifications
// while the driver writes into them
type Suspender interface {
	Suspend()
	Resume()
}

// Update carries a replacement Configuration
type Update struct {
	Config *wordmap.Configuration
}

// Trigger names what caused a scan
type Trigger string

const (
	// TriggerManual is a direct Scan call
	TriggerManual Trigger = "manual"
	// TriggerAttach is the initial scan of a newly attached scope
	TriggerAttach Trigger = "attach"
	// TriggerChange is a rescan after a change notification
	TriggerChange Trigger = "change"
	// TriggerUpdate is a rescan after a configuration update
	TriggerUpdate Trigger = "update"
)

// Report summarizes one scan of one scope
type Report struct {
	ScanID       string        `json:"scan_id"`
	Trigger      Trigger       `json:"trigger"`
	Nodes        int           `json:"nodes"`
	Candidates   int           `json:"candidates"`
	Changed      int           `json:"changed"`
	Skipped      int           `json:"skipped"`
	Replacements int           `json:"replacements"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Options configures a Driver
type Options struct {
	// UpdateBuffer sizes the update channel (default 8)
	UpdateBuffer int
	// OnScan receives every scan report; it runs on the scanning goroutine
	OnScan func(ctx context.Context, r Report)
}

type snapshot struct {
	cfg *wordmap.Configuration
	m   *matcher.Matcher
}

type attachment struct {
	scope DocumentScope
	stop  chan struct{}
}

// Driver applies the current Configuration to documents.
// Configuration reads and swaps are lock free; scans are serialized
type Driver struct {
	opts Options
	log  *logger.Logger

	snap    atomic.Pointer[snapshot]
	updates chan Update
	changes chan *attachment

	scanMu sync.Mutex

	mu       sync.Mutex
	attached map[DocumentScope]*attachment
}

// New returns a Driver running with an empty Configuration
func New(opts Options) *Driver {
	if opts.UpdateBuffer <= 0 {
		opts.UpdateBuffer = 8
	}
	d := &Driver{
		opts:     opts,
		log:      logger.Named("driver"),
		updates:  make(chan Update, opts.UpdateBuffer),
		changes:  make(chan *attachment, opts.UpdateBuffer),
		attached: make(map[DocumentScope]*attachment),
	}
	d.Replace(wordmap.Empty())
	return d
}

// Init loads the persisted Configuration. A load failure is logged and the
// driver keeps running with an empty Configuration
func (d *Driver) Init(ctx context.Context, store ConfigStore) *wordmap.Configuration {
	cfg, err := store.Load(ctx)
	if err != nil {
		err = perr.Wrap(err, perr.ErrorCodeConfigLoad, "load configuration")
		logger.C(ctx).Warn().Err(err).Msg("config load failed; continuing with empty configuration")
		cfg = wordmap.Empty()
	}
	if cfg == nil {
		cfg = wordmap.Empty()
	}
	d.Replace(cfg)
	d.log.Info().
		Int("targets", cfg.Table.Len()).
		Int("exceptions", cfg.Exceptions.Len()).
		Msg("configuration loaded")
	return cfg
}

// Config returns the Configuration currently in effect
func (d *Driver) Config() *wordmap.Configuration { return d.snap.Load().cfg }

// Matcher returns the compiled matcher for the current Configuration
func (d *Driver) Matcher() *matcher.Matcher { return d.snap.Load().m }

// Replace atomically swaps in cfg. Scans already running finish with the
// Configuration they started with
func (d *Driver) Replace(cfg *wordmap.Configuration) {
	if cfg == nil {
		cfg = wordmap.Empty()
	}
	d.snap.Store(&snapshot{cfg: cfg, m: matcher.Compile(cfg)})
}

// ShouldScan is the cheap pre-check against the current Configuration
func (d *Driver) ShouldScan(text string) bool {
	return d.snap.Load().m.MayMatch(text)
}

// ApplyToNode rewrites node under the current Configuration
func (d *Driver) ApplyToNode(node TextNode) (rewriter.Result, error) {
	return ApplyToNode(node, d.snap.Load().m)
}

// ApplyToNode reads node, rewrites its text with m and writes it back only
// when the text actually changed. A failed write is ScanTarget
func ApplyToNode(node TextNode, m *matcher.Matcher) (rewriter.Result, error) {
	text := node.Text()
	if !m.MayMatch(text) {
		return rewriter.Result{Text: text}, nil
	}
	res := rewriter.Apply(m, text)
	if !res.Changed {
		return res, nil
	}
	if err := node.SetText(res.Text); err != nil {
		return res, perr.Wrap(err, perr.ErrorCodeScanTarget, "write text node")
	}
	return res, nil
}

// Scan applies the current Configuration to every node of scope
func (d *Driver) Scan(ctx context.Context, scope DocumentScope) Report {
	return d.scan(ctx, scope, TriggerManual)
}

func (d *Driver) scan(ctx context.Context, scope DocumentScope, trig Trigger) Report {
	d.scanMu.Lock()
	defer d.scanMu.Unlock()

	began := time.Now()
	snap := d.snap.Load()
	rep := Report{ScanID: uuid.NewString(), Trigger: trig}

	if s, ok := scope.(Suspender); ok {
		s.Suspend()
		defer s.Resume()
	}

	for _, node := range scope.Nodes() {
		rep.Nodes++
		text := node.Text()
		if !snap.m.MayMatch(text) {
			continue
		}
		rep.Candidates++
		res, err := ApplyToNode(node, snap.m)
		if err != nil {
			rep.Skipped++
			d.log.Debug().Err(err).Str("scan_id", rep.ScanID).Msg("skipping text node")
			continue
		}
		if res.Changed {
			rep.Changed++
			rep.Replacements += res.Replacements
		}
	}
	rep.Elapsed = time.Since(began)

	d.log.Debug().
		Str("scan_id", rep.ScanID).
		Str("trigger", string(trig)).
		Int("nodes", rep.Nodes).
		Int("changed", rep.Changed).
		Int("skipped", rep.Skipped).
		Dur("elapsed", rep.Elapsed).
		Msg("scan")

	if d.opts.OnScan != nil {
		d.opts.OnScan(ctx, rep)
	}
	return rep
}
