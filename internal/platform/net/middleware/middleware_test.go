package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	perr "github.com/judell/word-replacer/internal/platform/errors"
	pnet "github.com/judell/word-replacer/internal/platform/net"
	phttp "github.com/judell/word-replacer/internal/platform/net/http"
	"github.com/judell/word-replacer/internal/platform/net/middleware"
	kit "github.com/judell/word-replacer/internal/platform/testkit"
)

func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func TestAccessLogZerolog_PassThrough(t *testing.T) {
	cases := []struct {
		name string
		opt  middleware.AccessLogOptions
		path string
		h    http.HandlerFunc
		code int
		body string
	}{
		{
			name: "status and body",
			path: "/x",
			h: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = io.WriteString(w, "ok")
			},
			code: http.StatusCreated, body: "ok",
		},
		{
			name: "slow marking",
			opt:  middleware.AccessLogOptions{Slow: time.Nanosecond},
			path: "/slow",
			h: func(w http.ResponseWriter, _ *http.Request) {
				time.Sleep(50 * time.Microsecond)
				_, _ = w.Write([]byte("hi"))
				_, _ = w.Write([]byte("there"))
			},
			code: http.StatusOK, body: "hithere",
		},
		{
			name: "skipped path",
			opt:  middleware.AccessLogOptions{Skip: []string{"/health"}},
			path: "/health",
			h:    func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, ".") },
			code: http.StatusOK, body: ".",
		},
		{
			name: "server error",
			path: "/err",
			h:    func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) },
			code: http.StatusBadGateway,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			middleware.AccessLogZerolog(c.opt)(c.h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, c.path, nil))
			if rr.Code != c.code || rr.Body.String() != c.body {
				t.Fatalf("got %d %q, want %d %q", rr.Code, rr.Body.String(), c.code, c.body)
			}
		})
	}
}

func TestLogContext_CarriesRequestID(t *testing.T) {
	var seen string
	h := chain(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = pnet.RequestID(r.Context())
	}), middleware.RequestID(), middleware.LogContext)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "abc-1" {
		t.Fatalf("request id = %q", seen)
	}
}

func TestRecoverJSON(t *testing.T) {
	h := chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}), middleware.RequestID(), middleware.LogContext, middleware.RecoverJSON)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "rid-7")
	rr := httptest.NewRecorder()
	kit.MustNotPanic(t, func() { h.ServeHTTP(rr, req) })

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	var env phttp.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("body: %v", err)
	}
	if env.Code != perr.ErrorCodePanic || env.RequestID != "rid-7" || rr.Header().Get("X-Request-ID") != "rid-7" {
		t.Fatalf("envelope = %+v headers=%v", env, rr.Header())
	}
}

func TestRecoverJSON_AbortHandlerRepanics(t *testing.T) {
	h := middleware.RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	kit.MustPanic(t, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestCORS_Preflight(t *testing.T) {
	h := middleware.CORS(middleware.CORSOptions{AllowedOrigins: []string{"https://example.org"}})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) }))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/rewrite", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://example.org" {
		t.Fatalf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("foreign origin must not be allowed")
	}
}

func TestDefaults_HeartbeatAndStack(t *testing.T) {
	mws := append([]func(http.Handler) http.Handler{middleware.Heartbeat("/health")}, middleware.Defaults(middleware.AccessLogOptions{})...)
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, pnet.RequestID(r.Context()))
	}), mws...)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK || !bytes.Equal(rr.Body.Bytes(), []byte(".")) {
		t.Fatalf("heartbeat = %d %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rr.Body.Len() == 0 {
		t.Fatalf("request id should be generated")
	}
	if rr.Header().Get("Cache-Control") == "" {
		t.Fatalf("NoCache headers missing")
	}
}
