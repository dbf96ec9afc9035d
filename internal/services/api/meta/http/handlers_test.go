package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/judell/word-replacer/internal/driver"
	phttp "github.com/judell/word-replacer/internal/platform/net/http"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func serve(t *testing.T, d Deps, path string) map[string]any {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	Register(r, d)
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("%s = %d", path, rec.Code)
	}
	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env.Data
}

func TestReady(t *testing.T) {
	drv := driver.New(driver.Options{})
	cases := []struct {
		name  string
		store any
		want  string
	}{
		{"ok", pinger{}, "ok"},
		{"fail", pinger{err: errors.New("down")}, "fail"},
		{"no-ping", struct{}{}, "degraded"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := serve(t, Deps{ServiceName: "svc", Store: c.store, Driver: drv}, "/ready")
			if got["status"] != c.want {
				t.Fatalf("status = %v, want %s", got["status"], c.want)
			}
		})
	}
}

func TestServiceAndVersion(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := Deps{
		ServiceName: "word-replacer-api",
		StartedAt:   start,
		Driver:      driver.New(driver.Options{}),
		Pages:       func() int { return 3 },
		Now:         func() time.Time { return start.Add(90 * time.Second) },
	}
	got := serve(t, d, "/service")
	if got["uptime"] != float64(90) || got["pages"] != float64(3) || got["targets"] != float64(0) {
		t.Fatalf("service = %v", got)
	}
	if v := serve(t, d, "/version"); v["service"] != "word-replacer-api" {
		t.Fatalf("version = %v", v)
	}
	if h := serve(t, d, "/health"); h["ok"] != true || h["now"] != "2026-01-01T00:01:30Z" {
		t.Fatalf("health = %v", h)
	}
}
