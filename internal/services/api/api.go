// Package api assembles the HTTP API for the application
package api

import (
	"github.com/judell/word-replacer/internal/driver"
	"github.com/judell/word-replacer/internal/modkit"
	"github.com/judell/word-replacer/internal/platform/config"
	"github.com/judell/word-replacer/internal/platform/logger"
	phttp "github.com/judell/word-replacer/internal/platform/net/http"
	"github.com/judell/word-replacer/internal/platform/net/middleware"

	"github.com/judell/word-replacer/internal/services/api/docs"
	mappingsmod "github.com/judell/word-replacer/internal/services/api/mappings/module"
	metamod "github.com/judell/word-replacer/internal/services/api/meta/module"
	pagesmod "github.com/judell/word-replacer/internal/services/api/pages/module"
	pagessvc "github.com/judell/word-replacer/internal/services/api/pages/service"
	rewritemod "github.com/judell/word-replacer/internal/services/api/rewrite/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Driver         *driver.Driver
	Store          driver.ConfigStore
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
	CORSOrigins    []string
	MaxPages       int
	AccessLog      middleware.AccessLogOptions
}

// Mounted is what Mount built, for shutdown and tests
type Mounted struct {
	Pages *pagessvc.Svc
}

// Close detaches every page the API attached
func (m Mounted) Close() {
	if m.Pages != nil {
		m.Pages.Close()
	}
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) Mounted {
	if opt.Driver == nil || opt.Store == nil {
		panic("api.Mount requires a Driver and a Store")
	}
	deps := modkit.Deps{
		Log:    opt.Logger,
		Cfg:    opt.Config,
		Driver: opt.Driver,
		Store:  opt.Store,
	}

	pages := pagesmod.New(deps, pagessvc.Options{MaxPages: opt.MaxPages})
	mods := []modkit.Module{
		metamod.New(deps, pages.Service().Count),
		mappingsmod.New(deps),
		rewritemod.New(deps),
		pages,
	}

	r.Use(
		middleware.Heartbeat("/health"),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: opt.CORSOrigins}),
	)
	r.Use(middleware.Defaults(opt.AccessLog)...)

	modkit.MountAPIV1(r, nil, mods...)
	phttp.MountSwagger(r, phttp.SwaggerOptions{Doc: docs.OpenAPI, BaseURL: "/api/v1"}, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	return Mounted{Pages: pages.Service()}
}
