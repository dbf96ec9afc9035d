package store

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
)

type countTracer struct{ n int }

func (c *countTracer) OnQuery(context.Context, QueryEvent) { c.n++ }

func TestOptions(t *testing.T) {
	var buf bytes.Buffer
	tr := &countTracer{}

	s := &Store{}
	for _, opt := range []Option{WithLogger(zerolog.New(&buf)), WithTracer(tr)} {
		if err := opt(s); err != nil {
			t.Fatalf("option: %v", err)
		}
	}

	s.Log.Info().Msg("via-store")
	if !bytes.Contains(buf.Bytes(), []byte("via-store")) {
		t.Fatalf("store logger not the one given: %q", buf.String())
	}
	if s.tracer != tr {
		t.Fatalf("tracer not installed")
	}
}
