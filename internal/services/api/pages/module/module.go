// Package module wires pages into the API using modkit
package module

import (
	modkit "github.com/judell/word-replacer/internal/modkit"
	phttp "github.com/judell/word-replacer/internal/platform/net/http"
	pageshttp "github.com/judell/word-replacer/internal/services/api/pages/http"
	pagessvc "github.com/judell/word-replacer/internal/services/api/pages/service"
)

// Module implements modkit.Module
type Module struct {
	b   modkit.Built
	svc *pagessvc.Svc
}

// New constructs the pages module
func New(deps modkit.Deps, o pagessvc.Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("pages"), modkit.WithPrefix("/pages")}, opts...)...)
	return &Module{b: b, svc: pagessvc.New(deps.Driver, o)}
}

// Service exposes the registry to other modules and tests
func (m *Module) Service() *pagessvc.Svc { return m.svc }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r phttp.Router) {
	modkit.Mount(r, m.b, func(sub phttp.Router) { pageshttp.Register(sub, m.svc) })
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Prefix implements modkit.Module
func (m *Module) Prefix() string { return m.b.Prefix }
