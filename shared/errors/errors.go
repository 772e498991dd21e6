// Package errors classifies failures so that every flow outcome maps to
// exactly one HTTP status.
//
// Services and storage return *Error values carrying a Kind. Anything that
// reaches the HTTP boundary without a Kind is demoted to KindInternal by
// Classify, and only the classified Message is ever written to a response.
package errors

import (
	"context"
	"errors"
	"net/http"
)

// Kind is the failure classification of an outcome.
type Kind int

const (
	// KindInternal is the zero value so that an unclassified Error is never
	// rendered as anything but a server fault.
	KindInternal Kind = iota
	KindConflict
	KindUnauthorized
	KindBadRequest
	KindNotFound
)

// InternalMessage is the only message rendered for internal failures.
const InternalMessage = "An unexpected error occurred"

func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// StatusCode maps a Kind to its transport status. Unknown kinds are internal.
func StatusCode(k Kind) int {
	switch k {
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Err holds the cause for logging and is never
// rendered.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the transport status of the error's Kind.
func (e *Error) StatusCode() int {
	return StatusCode(e.Kind)
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Internal wraps err as an internal failure with the generic message.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: InternalMessage, Err: err}
}

// Classify returns the classified error carried by err, or demotes err to an
// internal failure. A nil err yields nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if StatusCode(e.Kind) != http.StatusInternalServerError {
			return e
		}
		if e.Kind == KindInternal && e.Message == InternalMessage {
			return e
		}
		// internal details never leave the process
		return &Error{Kind: KindInternal, Message: InternalMessage, Err: e}
	}
	return Internal(err)
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

func IsConflict(err error) bool {
	return err != nil && KindOf(err) == KindConflict
}

func IsUnauthorized(err error) bool {
	return err != nil && KindOf(err) == KindUnauthorized
}

// IsTimeout reports whether err was caused by a cancelled or expired context.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
