// Package module wires mappings into the API using modkit
package module

import (
	modkit "github.com/judell/word-replacer/internal/modkit"
	phttp "github.com/judell/word-replacer/internal/platform/net/http"
	mappingshttp "github.com/judell/word-replacer/internal/services/api/mappings/http"
	mappingssvc "github.com/judell/word-replacer/internal/services/api/mappings/service"
)

// Module implements modkit.Module
type Module struct {
	b   modkit.Built
	svc *mappingssvc.Svc
}

// New constructs the mappings module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("mappings"), modkit.WithPrefix("/mappings")}, opts...)...)
	return &Module{b: b, svc: mappingssvc.New(deps.Driver, deps.Store)}
}

// Service exposes the module service to other modules and tests
func (m *Module) Service() *mappingssvc.Svc { return m.svc }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r phttp.Router) {
	modkit.Mount(r, m.b, func(sub phttp.Router) { mappingshttp.Register(sub, m.svc) })
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Prefix implements modkit.Module
func (m *Module) Prefix() string { return m.b.Prefix }
