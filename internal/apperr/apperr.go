// Package apperr defines the error taxonomy shared by all handlers: a
// kind-tagged error and a pure kind-to-status mapping. Handlers and stores
// tag failures; the HTTP boundary turns them into a status code.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure. The zero value is Internal so an untagged or
// unwrapped error always maps to 500.
type Kind int

const (
	Internal Kind = iota
	Unauthorized
	Validation
	NotFound
	Conflict
)

// Error carries a kind, a user-facing message, and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a tagged error with a user-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap tags an underlying error with a kind and user-facing message.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, or Internal if err is untagged.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Status maps an error to its HTTP status code. Conflict maps to 400, not
// 409: a duplicate unique field on create is reported as a bad request.
func Status(err error) int {
	switch KindOf(err) {
	case Unauthorized:
		return http.StatusUnauthorized
	case Validation, Conflict:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the message safe to show a client. Untagged errors
// never leak their text.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Internal Server Error"
}
