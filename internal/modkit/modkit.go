// Package modkit wires API modules. A module owns a route prefix and mounts
// its handlers under the versioned API router
package modkit

import (
	"net/http"
	"strings"

	"github.com/judell/word-replacer/internal/driver"
	"github.com/judell/word-replacer/internal/platform/config"
	"github.com/judell/word-replacer/internal/platform/logger"
	phttp "github.com/judell/word-replacer/internal/platform/net/http"
)

// Deps holds the shared dependencies handed to every module
type Deps struct {
	Log    *logger.Logger
	Cfg    config.Conf
	Driver *driver.Driver
	Store  driver.ConfigStore
}

// Module is the common surface for API modules
type Module interface {
	Name() string
	Prefix() string
	MountRoutes(r phttp.Router)
}

// Built is what the options resolve to
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
}

// Option mutates build configuration for a module
type Option func(*Built)

// WithName sets a module name used in logs
func WithName(name string) Option {
	return func(b *Built) { b.Name = name }
}

// WithPrefix mounts a module under a path prefix
func WithPrefix(prefix string) Option {
	return func(b *Built) { b.Prefix = prefix }
}

// WithMiddlewares attaches per module middleware in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// Build applies opts in order; later options override earlier ones.
// It panics when the result has no name or a root prefix, both are wiring bugs
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	if strings.TrimSpace(b.Name) == "" {
		panic("modkit: module name is required")
	}
	b.Prefix = "/" + strings.Trim(strings.TrimSpace(b.Prefix), "/")
	if b.Prefix == "/" {
		panic("modkit: module " + b.Name + " needs a non-root prefix")
	}
	return b
}

// Mount mounts each module under its prefix with its own middleware
func Mount(r phttp.Router, b Built, register func(phttp.Router)) {
	r.Route(b.Prefix, func(sub phttp.Router) {
		if len(b.Mw) > 0 {
			sub.Use(b.Mw...)
		}
		register(sub)
	})
}

// MountAPI mounts the modules under /api/{version} behind mw
func MountAPI(r phttp.Router, version string, mw []func(http.Handler) http.Handler, mods ...Module) {
	r.Route("/api/"+strings.Trim(version, "/"), func(api phttp.Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		for _, m := range mods {
			logger.Named("modkit").Debug().Str("module", m.Name()).Str("prefix", m.Prefix()).Msg("mounting module")
			m.MountRoutes(api)
		}
	})
}

// MountAPIV1 is MountAPI for version v1
func MountAPIV1(r phttp.Router, mw []func(http.Handler) http.Handler, mods ...Module) {
	MountAPI(r, "v1", mw, mods...)
}
