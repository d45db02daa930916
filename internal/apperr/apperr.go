// Package apperr defines the error kinds surfaced by the repositories and
// auth layer. Each kind maps to exactly one HTTP status at the transport edge.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a user-facing error with a kind. Details carries per-field
// validation messages for BadRequest errors.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// BadRequest returns a KindBadRequest error.
func BadRequest(msg string, details ...string) *Error {
	return &Error{Kind: KindBadRequest, Message: msg, Details: details}
}

// Unauthorized returns a KindUnauthorized error.
func Unauthorized(msg string) *Error {
	if msg == "" {
		msg = "Unauthorized"
	}
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// NotFound returns a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps cause. The cause is logged, never returned to clients.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", cause: cause}
}

// KindOf reports the kind of err. Errors that are not *Error are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a KindNotFound error.
func IsNotFound(err error) bool { return err != nil && KindOf(err) == KindNotFound }
