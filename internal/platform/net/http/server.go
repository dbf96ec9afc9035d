package http

import (
	"context"
	"errors"
	"net"
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/judell/word-replacer/internal/platform/logger"
)

// ServerOptions tunes the listener
type ServerOptions struct {
	// Addr is a net/http address such as ":4000"
	Addr string
	// ShutdownGrace bounds graceful shutdown once Run's ctx ends (default 10s)
	ShutdownGrace time.Duration
}

// Server is a thin wrapper over chi + stdlib http.Server
type Server struct {
	addr  string
	grace time.Duration
	mux   *chi.Mux
	srv   *stdhttp.Server
	ln    chan net.Addr
}

// NewServer creates a server; opts receive the *chi.Mux so callers can
// install middleware before any route is mounted
func NewServer(o ServerOptions, opts ...func(*chi.Mux)) *Server {
	if o.Addr == "" {
		o.Addr = ":4000"
	}
	if o.ShutdownGrace <= 0 {
		o.ShutdownGrace = 10 * time.Second
	}
	m := chi.NewRouter()
	for _, fn := range opts {
		fn(m)
	}
	return &Server{
		addr:  o.Addr,
		grace: o.ShutdownGrace,
		mux:   m,
		ln:    make(chan net.Addr, 1),
		srv: &stdhttp.Server{
			Addr:              o.Addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router returns a Router facade over the internal chi mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr returns the configured address
func (s *Server) Addr() string { return s.addr }

// Listening yields the bound address once Run has opened the listener
func (s *Server) Listening() <-chan net.Addr { return s.ln }

// Run listens and serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")

	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln <- l.Addr()
	log.Info().Str("addr", l.Addr().String()).Msg("http listening")

	errc := make(chan error, 1)
	go func() { errc <- s.srv.Serve(l) }()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.grace)
	defer cancel()
	log.Info().Msg("http shutting down")
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
