// Package http provides http transport for rewrites
package http

import (
	stdhttp "net/http"

	phttp "github.com/judell/word-replacer/internal/platform/net/http"
	"github.com/judell/word-replacer/internal/services/api/rewrite/domain"
	svc "github.com/judell/word-replacer/internal/services/api/rewrite/service"
)

// Register mounts rewrite endpoints on the given router
func Register(r phttp.Router, s svc.Service) {
	h := &handlers{svc: s}
	phttp.PostJSON(r, "/", h.text)
	phttp.PostJSON(r, "/html", h.html)
}

type handlers struct{ svc svc.Service }

// @Summary Rewrite plain text
// @Tags Rewrite
// @Accept json
// @Produce json
// @Param payload body domain.TextInput true "Text"
// @Success 200 {object} domain.TextResult
// @Router /rewrite [post]
func (h *handlers) text(r *stdhttp.Request, in domain.TextInput) (any, error) {
	return h.svc.Text(r.Context(), in), nil
}

// @Summary Rewrite an HTML document or fragment
// @Tags Rewrite
// @Accept json
// @Produce json
// @Param payload body domain.HTMLInput true "Markup"
// @Success 200 {object} domain.HTMLResult
// @Router /rewrite/html [post]
func (h *handlers) html(r *stdhttp.Request, in domain.HTMLInput) (any, error) {
	return h.svc.HTML(r.Context(), in)
}
