// Package http provides http transport for mappings
package http

import (
	stdhttp "net/http"
	"net/url"

	phttp "github.com/judell/word-replacer/internal/platform/net/http"
	"github.com/judell/word-replacer/internal/services/api/mappings/domain"
	svc "github.com/judell/word-replacer/internal/services/api/mappings/service"
)

// Register mounts mappings endpoints on the given router
func Register(r phttp.Router, s svc.Service) {
	h := &handlers{svc: s}
	phttp.GetJSON(r, "/", h.get)
	phttp.PutJSON(r, "/", h.replace)
	phttp.PostJSON(r, "/entries", h.putEntry)
	phttp.DeleteJSON(r, "/entries/{target}", h.deleteEntry)
	phttp.PostJSON(r, "/exceptions", h.addException)
	phttp.DeleteJSON(r, "/exceptions/{phrase}", h.deleteException)
}

type handlers struct{ svc svc.Service }

// @Summary Configuration in effect
// @Tags Mappings
// @Produce json
// @Success 200 {object} domain.View
// @Router /mappings [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context()), nil
}

// @Summary Replace mappings and exceptions
// @Tags Mappings
// @Accept json
// @Produce json
// @Param payload body domain.Document true "Configuration"
// @Success 200 {object} domain.View
// @Failure 503 {object} phttp.Envelope "store unavailable"
// @Router /mappings [put]
func (h *handlers) replace(r *stdhttp.Request, in domain.Document) (any, error) {
	return h.svc.Replace(r.Context(), in)
}

// @Summary Add or replace one mapping
// @Tags Mappings
// @Router /mappings/entries [post]
func (h *handlers) putEntry(r *stdhttp.Request, in domain.EntryInput) (any, error) {
	return h.svc.PutEntry(r.Context(), in)
}

// @Summary Remove one mapping
// @Tags Mappings
// @Router /mappings/entries/{target} [delete]
func (h *handlers) deleteEntry(r *stdhttp.Request) (any, error) {
	return h.svc.DeleteEntry(r.Context(), param(r, "target"))
}

// @Summary Add a protected phrase
// @Tags Mappings
// @Router /mappings/exceptions [post]
func (h *handlers) addException(r *stdhttp.Request, in domain.ExceptionInput) (any, error) {
	return h.svc.AddException(r.Context(), in)
}

// @Summary Remove a protected phrase
// @Tags Mappings
// @Router /mappings/exceptions/{phrase} [delete]
func (h *handlers) deleteException(r *stdhttp.Request) (any, error) {
	return h.svc.DeleteException(r.Context(), param(r, "phrase"))
}

// param returns a decoded path segment. chi matches on RawPath when the
// request has one, so the segment may still be escaped
func param(r *stdhttp.Request, name string) string {
	v := phttp.Param(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if s, err := url.PathUnescape(v); err == nil {
		return s
	}
	return v
}
