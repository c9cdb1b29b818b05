// Package apperr carries HTTP-aware errors from services to handlers.
//
// Services return *Error for expected failures (bad input, missing rows,
// permission problems); anything else is treated as an internal error by
// ctx.Fail and reported as 500.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an expected failure with the HTTP status it maps to.
type Error struct {
	Status  int
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same status, so callers can test
// errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Status == e.Status
}

// Sentinels for errors.Is checks on the status class.
var (
	ErrBadRequest   = &Error{Status: http.StatusBadRequest}
	ErrUnauthorized = &Error{Status: http.StatusUnauthorized}
	ErrForbidden    = &Error{Status: http.StatusForbidden}
	ErrNotFound     = &Error{Status: http.StatusNotFound}
)

func New(status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) *Error {
	return New(http.StatusBadRequest, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(http.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(http.StatusForbidden, format, args...)
}

// Invalid is a 422 with per-field messages.
func Invalid(fields map[string]string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Message: "Validation failed", Fields: fields}
}

// Wrap attaches cause to a new *Error without changing its message.
func Wrap(cause error, status int, message string) *Error {
	return &Error{Status: status, Message: message, Err: cause}
}

// As extracts the *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusOf returns the HTTP status for err: the carried status for *Error,
// 500 for anything else, 200 for nil.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if e, ok := As(err); ok {
		return e.Status
	}
	return http.StatusInternalServerError
}
