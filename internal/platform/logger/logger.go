// Package logger holds the process root zerolog logger. Components take a
// Named child; request and page handlers take C(ctx), which carries the ids
// stored on the context by WithRequest and WithPage
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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/judell/word-replacer/internal/platform/config/raw"
)

// Logger is the project logging type
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level     string
	Format    string // console or json
	Service   string
	Component string
	// Writer defaults to stdout; the CLI points it at stderr
	Writer       io.Writer
	WithCaller   bool
	SampleEvery  int
	StaticFields map[string]string
}

// FromEnv reads LOG_* through raw, which cannot log and so cannot cycle
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	return Options{
		Level:       strings.ToLower(env.Get("LEVEL", "debug")),
		Format:      strings.ToLower(env.Get("FORMAT", "console")),
		Service:     env.Get("SERVICE", ""),
		Component:   env.Get("COMPONENT", ""),
		WithCaller:  env.GetBool("CALLER", false),
		SampleEvery: env.GetInt("SAMPLE_EVERY", 0),
	}
}

var (
	once sync.Once
	root atomic.Pointer[zerolog.Logger]
)

// Init builds the root logger. Only the first call has any effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := build(opt)
		root.Store(&l)
	})
}

func build(opt Options) zerolog.Logger {
	w := opt.Writer
	if w == nil {
		w = os.Stdout
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	fields := map[string]any{}
	for k, v := range opt.StaticFields {
		fields[k] = v
	}
	if opt.Service != "" {
		fields["service"] = opt.Service
	}
	if opt.Component != "" {
		fields["component"] = opt.Component
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fields["go_version"] = bi.GoVersion
	}

	c := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp().Fields(fields)
	if opt.WithCaller {
		c = c.Caller()
	}
	l := c.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

// parseLevel maps a level name to zerolog; unknown names mean debug
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.DebugLevel
	}
	return lvl
}

// Get returns the root logger, building it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Named returns a child logger tagged with component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}

type scopeKey struct{}

// scope is what the context contributes to log lines
type scope struct {
	requestID string
	pageID    string
}

func scopeOf(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

// WithRequest records the request id on ctx; an empty id leaves ctx as is
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	s := scopeOf(ctx)
	s.requestID = reqID
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithPage records the live page a scan or request works on
func WithPage(ctx context.Context, pageID string) context.Context {
	if pageID == "" {
		return ctx
	}
	s := scopeOf(ctx)
	s.pageID = pageID
	return context.WithValue(ctx, scopeKey{}, s)
}

// C returns a child of the root logger carrying request_id and page_id
func C(ctx context.Context) *Logger {
	s := scopeOf(ctx)
	c := Get().With()
	if s.requestID != "" {
		c = c.Str("request_id", s.requestID)
	}
	if s.pageID != "" {
		c = c.Str("page_id", s.pageID)
	}
	l := c.Logger()
	return &l
}
