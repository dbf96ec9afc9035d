package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// RequestTimeout bounds every API request. Page writes return before the
// driver applies them, so nothing legitimate runs this long
const RequestTimeout = 60 * time.Second

// RequestID reuses an inbound X-Request-ID or mints one
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// Heartbeat answers GET path with 200 before any other middleware runs
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// CORSOptions is the subset of go-chi/cors the API configures. Empty lists
// take the defaults below
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

var corsDefaults = CORSOptions{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	ExposedHeaders: []string{"X-Request-ID"},
}

func CORS(o CORSOptions) func(http.Handler) http.Handler {
	pick := func(v, d []string) []string {
		if len(v) > 0 {
			return v
		}
		return d
	}
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   pick(o.AllowedOrigins, corsDefaults.AllowedOrigins),
		AllowedMethods:   pick(o.AllowedMethods, corsDefaults.AllowedMethods),
		AllowedHeaders:   pick(o.AllowedHeaders, corsDefaults.AllowedHeaders),
		ExposedHeaders:   pick(o.ExposedHeaders, corsDefaults.ExposedHeaders),
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}

// Defaults is the API middleware chain, outermost first. The request id
// must exist before LogContext copies it into the logger scope
func Defaults(o AccessLogOptions) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		chimw.RealIP,
		chimw.RequestID,
		LogContext,
		AccessLogZerolog(o),
		RecoverJSON,
		chimw.Timeout(RequestTimeout),
		chimw.NoCache,
	}
}
