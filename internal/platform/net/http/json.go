package http

import (
	"net/http"

	"github.com/judell/word-replacer/internal/platform/net/http/bind"
)

// JSONHandler adapts a pure JSON handler to a platform Handler. A handler
// that returns a Response picks its own status; anything else is a 200
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		return wrap(fn(r, in))
	})
}

// JSONHandlerNoBody calls fn without parsing a request body and wraps the result
func JSONHandlerNoBody(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		return wrap(fn(r))
	})
}

func wrap(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}

// GetJSON and DeleteJSON mount handlers that never read a body. Path
// parameters and the query string are all they get
func GetJSON(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Get(path, JSONHandlerNoBody(fn))
}

func DeleteJSON(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Delete(path, JSONHandlerNoBody(fn))
}

// PostJSON and PutJSON decode and validate a T before calling fn
func PostJSON[T any](r Router, path string, fn func(*http.Request, T) (any, error)) {
	r.Post(path, JSONHandler(fn))
}

func PutJSON[T any](r Router, path string, fn func(*http.Request, T) (any, error)) {
	r.Put(path, JSONHandler(fn))
}
