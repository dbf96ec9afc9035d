// Package module wires rewrites into the API using modkit
package module

import (
	modkit "github.com/judell/word-replacer/internal/modkit"
	phttp "github.com/judell/word-replacer/internal/platform/net/http"
	rewritehttp "github.com/judell/word-replacer/internal/services/api/rewrite/http"
	rewritesvc "github.com/judell/word-replacer/internal/services/api/rewrite/service"
)

// Module implements modkit.Module
type Module struct {
	b   modkit.Built
	svc *rewritesvc.Svc
}

// New constructs the rewrite module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("rewrite"), modkit.WithPrefix("/rewrite")}, opts...)...)
	return &Module{b: b, svc: rewritesvc.New(deps.Driver)}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r phttp.Router) {
	modkit.Mount(r, m.b, func(sub phttp.Router) { rewritehttp.Register(sub, m.svc) })
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Prefix implements modkit.Module
func (m *Module) Prefix() string { return m.b.Prefix }
