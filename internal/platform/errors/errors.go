// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode defines supported error codes used across the tool
// Values are stable since they surface as exit codes and API codes; add sparingly
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic is for panics recovered by middleware
	ErrorCodePanic

	// ErrorCodeInvalidScale is for a scale factor that is non-numeric, zero, negative or out of range
	ErrorCodeInvalidScale

	// ErrorCodeArchiveRead is for an input archive that is missing, unreadable or not a zip
	ErrorCodeArchiveRead

	// ErrorCodeArchiveWrite is for an output archive that could not be written or finalized
	ErrorCodeArchiveWrite

	// ErrorCodeDocumentDecode is for a scene entry whose bytes are not valid JSON
	ErrorCodeDocumentDecode

	// ErrorCodeInvalidInput is for a document the transformer cannot scale (e.g. overflow)
	ErrorCodeInvalidInput

	// ErrorCodeValidation is for option and request validation failures
	ErrorCodeValidation

	// ErrorCodeJSON is for malformed request payloads
	ErrorCodeJSON

	// ErrorCodeNotFound is for missing resources
	ErrorCodeNotFound
)

var codeNames = map[ErrorCode]string{
	ErrorCodeUnknown:        "Unknown",
	ErrorCodePanic:          "Panic",
	ErrorCodeInvalidScale:   "InvalidScaleError",
	ErrorCodeArchiveRead:    "ArchiveReadError",
	ErrorCodeArchiveWrite:   "ArchiveWriteError",
	ErrorCodeDocumentDecode: "DocumentDecodeError",
	ErrorCodeInvalidInput:   "InvalidInputKind",
	ErrorCodeValidation:     "Validation",
	ErrorCodeJSON:           "JSON",
	ErrorCodeNotFound:       "NotFound",
}

// String returns the kind name used in messages and logs
func (c ErrorCode) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", uint16(c))
}

// HTTPStatusCode turns an ErrorCode into an http status code
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeInvalidScale, ErrorCodeValidation, ErrorCodeJSON:
		return http.StatusBadRequest
	case ErrorCodeArchiveRead, ErrorCodeDocumentDecode, ErrorCodeInvalidInput:
		return http.StatusUnprocessableEntity
	case ErrorCodeArchiveWrite, ErrorCodePanic, ErrorCodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ExitCodeOf turns an ErrorCode into a process exit status for the CLI
func ExitCodeOf(c ErrorCode) int {
	switch c {
	case ErrorCodeInvalidScale, ErrorCodeValidation:
		return 2
	case ErrorCodeArchiveRead:
		return 3
	case ErrorCodeDocumentDecode, ErrorCodeInvalidInput:
		return 4
	case ErrorCodeArchiveWrite:
		return 5
	default:
		return 1
	}
}

// ErrNotFound is a sentinel not found error for convenience
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is the structured error type with wrapping and metadata
// msg is human/developer facing; code is machine facing
// field is optional (offending entry or path); op is optional operation tag
// orig is the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Wire is the JSON-serializable form returned by the API
type Wire struct {
	Code    ErrorCode `json:"code"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending entry or path, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// ToWire converts an *Error to a Wire payload
func (e *Error) ToWire() Wire {
	return Wire{Code: e.code, Kind: e.code.String(), Message: e.msg, Field: e.field}
}

// WireFrom converts any error into a Wire payload with best-effort mapping
// If err is nil, returns the zero-value Wire (no error)
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Kind: ErrorCodeUnknown.String(), Message: err.Error()}
}

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus returns the mapped HTTP status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// ExitCode returns the mapped process exit status for any error; 0 for nil
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return ExitCodeOf(CodeOf(err))
}

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Mutators (copy-on-write)

// WithField attaches a field to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithOp attaches an operation label to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// WithFieldChain sets field on *Error or wraps a foreign error into an *Error with Unknown code (copy-on-write)
func WithFieldChain(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return &Error{code: ErrorCodeUnknown, msg: err.Error(), field: field, orig: err}
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// WrapIf wraps only when err != nil (helper for 1-liners)
func WrapIf(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// Sugar

// InvalidScalef returns an invalid scale error
func InvalidScalef(format string, a ...any) error { return Newf(ErrorCodeInvalidScale, format, a...) }

// ArchiveReadf returns an archive read error
func ArchiveReadf(format string, a ...any) error { return Newf(ErrorCodeArchiveRead, format, a...) }

// ArchiveWritef returns an archive write error
func ArchiveWritef(format string, a ...any) error { return Newf(ErrorCodeArchiveWrite, format, a...) }

// DocumentDecodef returns a document decode error
func DocumentDecodef(format string, a ...any) error {
	return Newf(ErrorCodeDocumentDecode, format, a...)
}

// InvalidInputf returns an invalid input error
func InvalidInputf(format string, a ...any) error { return Newf(ErrorCodeInvalidInput, format, a...) }

// Validationf returns a validation error
func Validationf(format string, a ...any) error { return Newf(ErrorCodeValidation, format, a...) }

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// JSONErrf returns a JSON error
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// PanicErrf returns a panic error
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

// Internalf returns a generic internal error
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }

// HTTP bundles status + wire in one shot (nice for handlers)
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	return HTTPStatus(err), WireFrom(err)
}
