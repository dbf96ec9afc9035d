// Package errors is the project error type: a message for people, a stable
// ErrorCode for machines and an optional offending field. Import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an Error. Values go over the wire; append only
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	// ErrorCodeUnavailable is transient; a retry may succeed
	ErrorCodeUnavailable
	ErrorCodeInvalidArgument
	ErrorCodeValidation
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeDB
	// ErrorCodeConfigLoad means the stored configuration could not be read.
	// The driver keeps running with an empty one
	ErrorCodeConfigLoad
	// ErrorCodeConfigSave means nothing was persisted and the configuration
	// in effect did not change
	ErrorCodeConfigSave
	// ErrorCodeScanTarget is a text node that went away or refused a write
	ErrorCodeScanTarget
)

var codes = map[ErrorCode]struct {
	name   string
	status int
}{
	ErrorCodePanic:           {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:     {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeInvalidArgument: {"invalid_argument", http.StatusUnprocessableEntity},
	ErrorCodeValidation:      {"validation", http.StatusBadRequest},
	ErrorCodeJSON:            {"json", http.StatusBadRequest},
	ErrorCodeNotFound:        {"not_found", http.StatusNotFound},
	ErrorCodeDB:              {"db", http.StatusInternalServerError},
	ErrorCodeConfigLoad:      {"config_load", http.StatusServiceUnavailable},
	ErrorCodeConfigSave:      {"config_save", http.StatusServiceUnavailable},
	ErrorCodeScanTarget:      {"scan_target", http.StatusConflict},
}

func (c ErrorCode) String() string {
	if m, ok := codes[c]; ok {
		return m.name
	}
	return "unknown"
}

// HTTPStatusCode is the response status for c; unknown codes are 500
func HTTPStatusCode(c ErrorCode) int {
	if m, ok := codes[c]; ok {
		return m.status
	}
	return http.StatusInternalServerError
}

// ErrNotFound is returned by lookups that found nothing
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is the structured error. Copies are cheap; WithField never mutates
type Error struct {
	code  ErrorCode
	msg   string
	field string
	orig  error
}

// Wire is the error as the API serializes it
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.orig != nil:
		return e.msg + ": " + e.orig.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error   { return e.orig }
func (e *Error) Code() ErrorCode { return e.code }
func (e *Error) Field() string   { return e.field }
func (e *Error) Message() string { return e.msg }

// WireFrom renders any error for the API. Foreign errors are Unknown
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return Wire{Code: e.code, Message: e.msg, Field: e.field}
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// As finds the outermost *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// Root follows Unwrap to the innermost cause
func Root(err error) error {
	for {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
}

// CodeOf is the code of the outermost *Error, or Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is HTTPStatusCode(CodeOf(err))
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// WithField returns a copy of err naming the offending input field.
// Errors that are not ours come back unchanged
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	c.field = field
	return &c
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrap keeps orig reachable through errors.Is and errors.As
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return Wrap(orig, code, fmt.Sprintf(format, a...))
}

func NotFoundf(format string, a ...any) error    { return Newf(ErrorCodeNotFound, format, a...) }
func InvalidArgf(format string, a ...any) error  { return Newf(ErrorCodeInvalidArgument, format, a...) }
func JSONErrf(format string, a ...any) error     { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error    { return Newf(ErrorCodePanic, format, a...) }
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }
func Internalf(format string, a ...any) error    { return Newf(ErrorCodeUnknown, format, a...) }
