package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "github.com/judell/word-replacer/internal/platform/errors"
	pnet "github.com/judell/word-replacer/internal/platform/net"
)

// Envelope wraps every JSON body the API writes. Successful responses fill
// Data; failures fill Code, Error and, for bad input, Field
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

func envelope(status int, reqID string) Envelope {
	return Envelope{StatusCode: status, Status: stdhttp.StatusText(status), RequestID: reqID}
}

// JSON writes v with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorEnvelope is the status and body err maps to
func ErrorEnvelope(err error, reqID string) (int, Envelope) {
	status := perr.HTTPStatus(err)
	wire := perr.WireFrom(err)
	env := envelope(status, reqID)
	env.Code, env.Error, env.Field = wire.Code, wire.Message, wire.Field
	return status, env
}

// RespondError writes the error envelope for err
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status, env := ErrorEnvelope(err, pnet.RequestID(r.Context()))
	JSON(w, status, env)
}

// Response is what return-style handlers produce. A non-nil Err wins over
// Status and Body
type Response struct {
	Status int
	Body   any
	Err    error
	Header stdhttp.Header
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		resp := h(r)
		for k, vv := range resp.Header {
			w.Header()[k] = append(w.Header()[k], vv...)
		}
		switch {
		case resp.Err != nil:
			RespondError(w, r, resp.Err)
		case resp.Status == stdhttp.StatusNoContent:
			w.WriteHeader(stdhttp.StatusNoContent)
		default:
			status := resp.Status
			if status == 0 {
				status = stdhttp.StatusOK
			}
			env := envelope(status, pnet.RequestID(r.Context()))
			env.Data = resp.Body
			JSON(w, status, env)
		}
	}
}

func OK(data any) Response      { return Response{Status: stdhttp.StatusOK, Body: data} }
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }

// Accepted is for writes the driver applies on its next pass
func Accepted(data any) Response { return Response{Status: stdhttp.StatusAccepted, Body: data} }
func NoContent() Response        { return Response{Status: stdhttp.StatusNoContent} }
func Error(err error) Response   { return Response{Err: err} }
