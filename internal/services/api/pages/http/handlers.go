// Package http provides http transport for pages
package http

import (
	stdhttp "net/http"

	perr "github.com/judell/word-replacer/internal/platform/errors"
	phttp "github.com/judell/word-replacer/internal/platform/net/http"
	"github.com/judell/word-replacer/internal/services/api/pages/domain"
	svc "github.com/judell/word-replacer/internal/services/api/pages/service"
)

// Register mounts page endpoints on the given router
func Register(r phttp.Router, s svc.Service) {
	h := &handlers{svc: s}
	phttp.GetJSON(r, "/", h.list)
	phttp.PostJSON(r, "/", h.create)
	phttp.GetJSON(r, "/{id}", h.get)
	phttp.DeleteJSON(r, "/{id}", h.delete)
	phttp.PostJSON(r, "/{id}/fragments", h.appendFragment)
	phttp.DeleteJSON(r, "/{id}/fragments", h.removeFragment)
}

type handlers struct{ svc svc.Service }

// @Summary List attached pages
// @Tags Pages
// @Produce json
// @Success 200 {array} domain.Page
// @Router /pages [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context()), nil
}

// @Summary Attach a page
// @Tags Pages
// @Accept json
// @Produce json
// @Param payload body domain.CreateInput true "Page markup"
// @Success 201 {object} domain.Page
// @Failure 503 {object} phttp.Envelope "page limit reached"
// @Router /pages [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	p, err := h.svc.Create(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return phttp.Created(p), nil
}

// @Summary Render an attached page
// @Tags Pages
// @Produce json
// @Param id path string true "Page id"
// @Success 200 {object} domain.PageHTML
// @Failure 404 {object} phttp.Envelope
// @Router /pages/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), phttp.Param(r, "id"))
}

// @Summary Detach a page
// @Tags Pages
// @Param id path string true "Page id"
// @Success 204
// @Router /pages/{id} [delete]
func (h *handlers) delete(r *stdhttp.Request) (any, error) {
	if err := h.svc.Delete(r.Context(), phttp.Param(r, "id")); err != nil {
		return nil, err
	}
	return phttp.NoContent(), nil
}

// @Summary Append markup to a page
// @Tags Pages
// @Accept json
// @Produce json
// @Param id path string true "Page id"
// @Param payload body domain.FragmentInput true "Fragment"
// @Success 202 {object} domain.FragmentResult
// @Router /pages/{id}/fragments [post]
func (h *handlers) appendFragment(r *stdhttp.Request, in domain.FragmentInput) (any, error) {
	res, err := h.svc.Append(r.Context(), phttp.Param(r, "id"), in)
	if err != nil {
		return nil, err
	}
	return phttp.Accepted(res), nil
}

// @Summary Remove elements from a page
// @Tags Pages
// @Produce json
// @Param id path string true "Page id"
// @Param selector query string true "CSS selector"
// @Success 200 {object} domain.FragmentResult
// @Router /pages/{id}/fragments [delete]
func (h *handlers) removeFragment(r *stdhttp.Request) (any, error) {
	sel := r.URL.Query().Get("selector")
	if sel == "" {
		return nil, perr.WithField(perr.InvalidArgf("selector is required"), "selector")
	}
	return h.svc.Remove(r.Context(), phttp.Param(r, "id"), sel)
}
