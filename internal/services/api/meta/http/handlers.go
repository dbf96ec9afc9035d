// Package http provides meta endpoints
package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/judell/word-replacer/internal/core/version"
	"github.com/judell/word-replacer/internal/driver"
	phttp "github.com/judell/word-replacer/internal/platform/net/http"
)

// Pinger is satisfied by stores that can report readiness
type Pinger interface {
	Ping(context.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Store       any
	Driver      *driver.Driver
	// Pages counts attached pages; nil reports zero
	Pages func() int
	Now   func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r phttp.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}

	phttp.GetJSON(r, "/health", h.health)
	phttp.GetJSON(r, "/ready", h.ready)
	phttp.GetJSON(r, "/version", h.version)
	phttp.GetJSON(r, "/service", h.service)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"word-replacer-api"`
	Started string `json:"started" example:"2026-10-19T13:00:00Z"`
	Now     string `json:"now"     example:"2026-10-19T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"store"`
	Status string `json:"status" example:"ok"` // ok fail unknown
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// ServiceResponse describes service info and what the driver holds
type ServiceResponse struct {
	Name       string `json:"name"       example:"word-replacer-api"`
	Started    string `json:"started"`
	Uptime     int64  `json:"uptime"     example:"300"`
	Targets    int    `json:"targets"    example:"2"`
	Exceptions int    `json:"exceptions" example:"1"`
	Attached   int    `json:"attached"   example:"0"`
	Pages      int    `json:"pages"      example:"0"`
}

// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h *handlers) health(_ *stdhttp.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

// @Summary Readiness probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /meta/ready [get]
func (h *handlers) ready(r *stdhttp.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	st := ReadyCheck{Name: "store", Status: "unknown"}
	if p, ok := h.deps.Store.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			st.Status, st.Error = "fail", err.Error()
		} else {
			st.Status = "ok"
		}
	}
	drv := ReadyCheck{Name: "driver", Status: "ok"}
	if h.deps.Driver == nil {
		drv.Status = "fail"
		drv.Error = "no driver"
	}

	overall := "ok"
	switch {
	case st.Status == "fail" || drv.Status == "fail":
		overall = "fail"
	case st.Status != "ok":
		overall = "degraded"
	}

	return ReadyResponse{
		Status: overall,
		Checks: []ReadyCheck{st, drv},
		Now:    h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h *handlers) version(_ *stdhttp.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h *handlers) service(_ *stdhttp.Request) (any, error) {
	out := ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.deps.Now().Sub(h.deps.StartedAt) / time.Second),
	}
	if d := h.deps.Driver; d != nil {
		cfg := d.Config()
		out.Targets = cfg.Table.Len()
		out.Exceptions = cfg.Exceptions.Len()
		out.Attached = d.Attached()
	}
	if h.deps.Pages != nil {
		out.Pages = h.deps.Pages()
	}
	return out, nil
}
