// Package bind decodes and validates JSON request bodies. Validation runs
// through go-playground/validator with english messages keyed by json names
package bind

import (
	"bufio"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	perr "github.com/judell/word-replacer/internal/platform/errors"
	"github.com/judell/word-replacer/internal/platform/logger"
)

// DefaultMaxBytes bounds a request body; pages are posted whole
const DefaultMaxBytes = 4 << 20

// ValidatorSvc pairs the validator with its translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

// messages replace the stock translations with shorter ones
var messages = []struct {
	tag, text string
	param     bool
}{
	{"required", "{0} is required", false},
	{"nonblank", "{0} must not be blank", false},
	{"min", "{0} must be at least {1}", true},
	{"max", "{0} must be at most {1}", true},
}

var jsonMore = func(dec *json.Decoder) bool { return dec.More() } // seam

// Get returns the process validator
var Get = sync.OnceValue(func() *ValidatorSvc {
	loc := en.New()
	trans, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = en_translations.RegisterDefaultTranslations(v, trans)
	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	for _, m := range messages {
		m := m
		_ = v.RegisterTranslation(m.tag, trans,
			func(t ut.Translator) error { return t.Add(m.tag, m.text, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				params := []string{fe.Field()}
				if m.param {
					params = append(params, fe.Param())
				}
				msg, _ := t.T(m.tag, params...)
				return msg
			},
		)
	}
	return &ValidatorSvc{Validator: v, Translator: trans}
})

// jsonName reports fields by their json key so errors match the payload
func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "", "-":
		return fld.Name
	}
	return name
}

// JSONOptions controls parsing. The zero value is strict: 4MB cap, unknown
// fields rejected, body required on POST/PUT
type JSONOptions struct {
	MaxBytes       int64
	AllowUnknown   bool
	AllowEmptyBody bool
}

// ParseJSON decodes the body into T and validates it. Failures are
// ErrorCodeJSON for malformed input and ErrorCodeValidation (with the
// offending field) for well formed input that breaks a rule
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero, dst T
	var o JSONOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.C(r.Context()).Warn().Err(err).Msg("close request body")
		}
	}()

	br := bufio.NewReader(http.MaxBytesReader(nil, r.Body, o.MaxBytes))
	if _, err := br.Peek(1); err != nil {
		switch {
		case o.AllowEmptyBody, r.Method == http.MethodGet, r.Method == http.MethodDelete,
			r.Method == http.MethodHead, r.Method == http.MethodOptions:
			return dst, nil
		}
		return zero, perr.JSONErrf("empty body")
	}

	dec := json.NewDecoder(br)
	if !o.AllowUnknown {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return zero, perr.Newf(perr.ErrorCodeValidation, "request body exceeds %d bytes", tooBig.Limit)
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if jsonMore(dec) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if err := Get().Validator.Struct(dst); err != nil {
		var inv *validator.InvalidValidationError
		if errors.As(err, &inv) {
			logger.C(r.Context()).Error().Err(inv).Msg("validator misuse")
			return zero, perr.Internalf("validation error")
		}
		field, msg := ValidationFieldAndMessage(err)
		return zero, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
	}
	return dst, nil
}

// ValidationFieldAndMessage returns the first failing field and its message
func ValidationFieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().Translator)
	}
	return "", err.Error()
}
