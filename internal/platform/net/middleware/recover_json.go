package middleware

import (
	"net/http"
	"runtime/debug"

	perr "github.com/judell/word-replacer/internal/platform/errors"
	"github.com/judell/word-replacer/internal/platform/logger"
	pnet "github.com/judell/word-replacer/internal/platform/net"
	phttp "github.com/judell/word-replacer/internal/platform/net/http"
)

// RecoverJSON converts panics into the standard JSON 500 envelope and logs
// the stack with the request id. http.ErrAbortHandler is re-panicked
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			status, env := phttp.ErrorEnvelope(perr.PanicErrf("panic recovered"), reqID)
			phttp.JSON(w, status, env)
		}()
		next.ServeHTTP(w, r)
	})
}
