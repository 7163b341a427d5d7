package apierr

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Error is a failure with a caller-visible HTTP classification. The Message
// is safe to return to clients; the wrapped cause is for server-side logs
// only.
type Error struct {
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(status int, format string, args ...interface{}) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(http.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(http.StatusForbidden, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, format, args...)
}

// Upstream classifies a store or media-host failure. cause is kept for
// logging and never serialized to the client.
func Upstream(cause error, format string, args ...interface{}) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

// StatusOf returns the classified status of err, or 500 for anything that
// is not an *Error.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-safe message of err. Unclassified errors get
// a generic message so driver detail never leaks.
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "something went wrong"
}
