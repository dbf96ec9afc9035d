// Package module wires meta endpoints into the API
package module

import (
	"time"

	modkit "github.com/judell/word-replacer/internal/modkit"
	phttp "github.com/judell/word-replacer/internal/platform/net/http"
	metahttp "github.com/judell/word-replacer/internal/services/api/meta/http"
)

// ServiceName is reported by the meta endpoints
const ServiceName = "word-replacer-api"

// Module implements modkit.Module
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs the meta module. pages may be nil
func New(deps modkit.Deps, pages func() int, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)...)
	return &Module{b: b, deps: metahttp.Deps{
		ServiceName: ServiceName,
		StartedAt:   time.Now(),
		Store:       deps.Store,
		Driver:      deps.Driver,
		Pages:       pages,
	}}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r phttp.Router) {
	modkit.Mount(r, m.b, func(sub phttp.Router) { metahttp.Register(sub, m.deps) })
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Prefix implements modkit.Module
func (m *Module) Prefix() string { return m.b.Prefix }
