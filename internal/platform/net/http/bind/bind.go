// Package bind decodes and validates JSON request bodies into typed payloads
package bind

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	perr "github.com/mr-bo-jangles/SqueezySceney/internal/platform/errors"
	"github.com/mr-bo-jangles/SqueezySceney/internal/platform/logger"
	"github.com/mr-bo-jangles/SqueezySceney/internal/platform/validate"

	"github.com/go-playground/validator/v10"
)

// JSONOptions controls parsing behavior
type JSONOptions struct {
	MaxBytes        int64 // 0 means unlimited
	DisallowUnknown bool
	AllowEmptyBody  bool
}

// DefaultJSONOptions allow 8MB bodies since scene documents run large, and reject unknown fields
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{MaxBytes: 8 << 20, DisallowUnknown: true}
}

// ParseJSON decodes exactly one JSON value into T and validates it
// failures are JSON errors, or Validation errors carrying the offending field
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := DefaultJSONOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	defer closeBody(r)

	body := io.Reader(r.Body)
	if o.MaxBytes > 0 {
		body = io.LimitReader(body, o.MaxBytes)
	}
	br := bufio.NewReader(body)
	if _, err := br.Peek(1); err != nil {
		if !errors.Is(err, io.EOF) {
			return zero, perr.Wrap(err, perr.ErrorCodeJSON, "read body")
		}
		if o.AllowEmptyBody || bodyless(r.Method) {
			return zero, nil
		}
		return zero, perr.JSONErrf("empty body")
	}

	dec := json.NewDecoder(br)
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}
	var dst T
	if err := dec.Decode(&dst); err != nil {
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if err := validate.Get().Validator.Struct(dst); err != nil {
		var inv *validator.InvalidValidationError
		if errors.As(err, &inv) {
			// maps and slices have nothing to validate
			return dst, nil
		}
		field, msg := validate.FieldAndMessage(err)
		return zero, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
	}
	return dst, nil
}

func bodyless(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions:
		return true
	}
	return false
}

func closeBody(r *http.Request) {
	if err := r.Body.Close(); err != nil {
		logger.C(r.Context()).Warn().Err(err).Msg("close request body")
	}
}
