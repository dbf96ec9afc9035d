package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"

	kit "github.com/judell/word-replacer/internal/platform/testkit"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":        zerolog.TraceLevel,
		"DEBUG":        zerolog.DebugLevel,
		"info":         zerolog.InfoLevel,
		"warn":         zerolog.WarnLevel,
		"warning":      zerolog.WarnLevel,
		" error ":      zerolog.ErrorLevel,
		"fatal":        zerolog.FatalLevel,
		"panic":        zerolog.PanicLevel,
		"":             zerolog.DebugLevel,
		"  nonsense  ": zerolog.DebugLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

// always re-samples at N=1 so the sampled root still emits every line
func always(l *Logger) *Logger {
	s := l.Sample(&zerolog.BasicSampler{N: 1})
	return &s
}

func TestInitScopes(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{
		Level:        "info",
		Format:       "console",
		Service:      "word-replacer-api",
		Writer:       &buf,
		WithCaller:   true,
		SampleEvery:  2,
		StaticFields: map[string]string{"build": "test"},
	})

	always(Get()).Info().Msg("root-line")
	always(Named("driver")).Info().Msg("named-line")
	ctx := WithPage(WithRequest(context.Background(), "req-123"), "pg-abc")
	always(C(ctx)).Info().Msg("scoped-line")
	always(C(context.Background())).Debug().Msg("below-level")

	out := buf.String()
	for _, s := range []string{
		"root-line", "named-line", "scoped-line",
		"component=", "driver",
		"request_id=", "req-123",
		"page_id=", "pg-abc",
		"build=", "service=", "word-replacer-api",
	} {
		kit.MustContain(t, out, s)
	}
	if bytes.Contains(buf.Bytes(), []byte("below-level")) {
		t.Fatalf("debug line emitted at info level:\n%s", out)
	}

	// a second Init is ignored
	var other bytes.Buffer
	Init(Options{Writer: &other, Format: "json"})
	always(Get()).Info().Msg("after")
	if other.Len() != 0 {
		t.Fatalf("second Init replaced the root logger")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_SERVICE", "word-replacer")
	t.Setenv("LOG_COMPONENT", "cli")
	t.Setenv("LOG_CALLER", "yes")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	got := FromEnv()
	want := Options{Level: "warn", Format: "json", Service: "word-replacer", Component: "cli", WithCaller: true, SampleEvery: 5}
	if got.Level != want.Level || got.Format != want.Format || got.Service != want.Service ||
		got.Component != want.Component || got.WithCaller != want.WithCaller || got.SampleEvery != want.SampleEvery {
		t.Fatalf("FromEnv = %+v, want %+v", got, want)
	}
}

func TestEmptyIDsLeaveContext(t *testing.T) {
	bg := context.Background()
	if ctx := WithPage(WithRequest(bg, ""), ""); ctx != bg {
		t.Fatalf("empty ids should leave ctx untouched")
	}
	ctx := WithPage(WithRequest(bg, "r1"), "p1")
	ctx = WithRequest(ctx, "r2")
	if s := scopeOf(ctx); s.requestID != "r2" || s.pageID != "p1" {
		t.Fatalf("scope = %+v", s)
	}
}
