// Package bind decodes and validates JSON request bodies into project errors
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "diffjar/internal/platform/errors"
	"diffjar/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// DefaultMaxBytes caps a body when Options.MaxBytes is zero
const DefaultMaxBytes int64 = 1 << 20

// Options tunes ParseJSON, the zero value is strict
type Options struct {
	// MaxBytes caps the body, zero means DefaultMaxBytes
	MaxBytes int64
	// AllowUnknown accepts fields T does not declare
	AllowUnknown bool
	// AllowEmpty returns the zero T for an empty body
	AllowEmpty bool
}

type checker struct {
	v     *validator.Validate
	trans ut.Translator
}

var (
	checkerOnce sync.Once
	std         *checker
)

func get() *checker {
	checkerOnce.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = en_translations.RegisterDefaultTranslations(v, trans)
		std = &checker{v: v, trans: trans}
	})
	return std
}

// jsonName reports fields by their json name so messages match the wire
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "":
		return f.Name
	case "-":
		return ""
	}
	return name
}

// Validate runs struct tags on v, the first failure comes back as a validation error naming its field
// values that are not structs have no tags and always pass
func Validate(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	c := get()
	err := c.v.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return perr.WithField(perr.New(perr.ErrorCodeValidation, fe.Translate(c.trans)), fe.Field())
	}
	logger.Named("bind").Error().Err(err).Type("target", v).Msg("validator misuse")
	return perr.Wrapf(err, perr.ErrorCodeUnknown, "validate %T", v)
}

// ParseJSON decodes exactly one JSON value from the body into T and validates it
func ParseJSON[T any](r *http.Request, opts ...Options) (T, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	limit := o.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}

	var zero, dst T
	if r.Body == nil {
		return emptyBody[T](o)
	}
	body := http.MaxBytesReader(nil, r.Body, limit)
	defer func() { _ = body.Close() }()

	dec := json.NewDecoder(body)
	if !o.AllowUnknown {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&dst); err != nil {
		return zero, decodeErr[T](err, o, limit)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return zero, tooLarge(limit)
		}
		return zero, perr.JSONErrf("unexpected data after the JSON body")
	}
	if err := Validate(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

func decodeErr[T any](err error, o Options, limit int64) error {
	var tooBig *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		_, eerr := emptyBody[T](o)
		return eerr
	case errors.As(err, &tooBig):
		return tooLarge(limit)
	}
	return perr.JSONErrf("invalid JSON: %v", err)
}

func emptyBody[T any](o Options) (T, error) {
	var zero T
	if o.AllowEmpty {
		return zero, nil
	}
	return zero, perr.JSONErrf("empty body")
}

func tooLarge(limit int64) error {
	return perr.Newf(perr.ErrorCodeValidation, "request body exceeds %d bytes", limit)
}
