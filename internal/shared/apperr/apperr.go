// Package apperr is the error vocabulary shared by the API server and the
// client library. Errors carry a stable code that survives the wire
// round-trip, so the client can hand callers the same kind of error the
// server decided on.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindAuth          Kind = "auth_error"          // bad credentials or invalid session
	KindAuthorization Kind = "authorization_error" // caller lacks rights over the target
	KindInvalidState  Kind = "invalid_state"       // transition not valid from current state
	KindConflict      Kind = "conflict"            // duplicate or racing mutation
	KindNotFound      Kind = "not_found"
	KindValidation    Kind = "validation_error"
	KindNetwork       Kind = "network_error" // transport failure, client-side only
	KindInternal      Kind = "internal_error"
)

type Error struct {
	Kind    Kind   `json:"code"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets errors.Is match two taxonomy errors by kind alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func Auth(message string) *Error          { return New(KindAuth, message) }
func Authorization(message string) *Error { return New(KindAuthorization, message) }
func InvalidState(message string) *Error  { return New(KindInvalidState, message) }
func Conflict(message string) *Error      { return New(KindConflict, message) }
func NotFound(message string) *Error      { return New(KindNotFound, message) }
func Validation(message string) *Error    { return New(KindValidation, message) }

func Network(cause error) *Error {
	return Wrap(KindNetwork, "request failed", cause)
}

func Internal(cause error) *Error {
	return Wrap(KindInternal, "internal error", cause)
}

// KindOf returns the kind of err, or KindInternal for errors outside the
// taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }

// HTTPStatus maps an error kind to the status the server responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindAuth:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInvalidState:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// FromStatus reconstructs a taxonomy error from a wire code and status.
// Unknown codes fall back to a kind inferred from the status so older or
// foreign servers still map to something sensible.
func FromStatus(status int, code, message string) *Error {
	switch Kind(code) {
	case KindAuth, KindAuthorization, KindInvalidState, KindConflict,
		KindNotFound, KindValidation, KindInternal:
		return New(Kind(code), message)
	}
	if message == "" {
		message = http.StatusText(status)
	}
	switch status {
	case http.StatusUnauthorized:
		return New(KindAuth, message)
	case http.StatusForbidden:
		return New(KindAuthorization, message)
	case http.StatusNotFound:
		return New(KindNotFound, message)
	case http.StatusConflict:
		return New(KindConflict, message)
	case http.StatusBadRequest:
		return New(KindValidation, message)
	default:
		return New(KindInternal, message)
	}
}
