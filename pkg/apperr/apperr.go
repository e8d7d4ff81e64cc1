package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error so transports can map it to a
// caller-facing response without inspecting message text.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is the application error type carried across service boundaries.
// The Msg is safe to show to callers; the wrapped cause is not.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}

	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports a client-fault input error.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// Unauthorized reports a missing or invalid identity.
func Unauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Msg: msg}
}

// Forbidden reports an authenticated caller lacking the required role.
func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

// NotFound reports a missing entity by name and id.
func NotFound(entity string, id any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf("%s with ID %v not found", entity, id)}
}

// Conflict reports a uniqueness violation surfaced to the caller.
func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// Internal wraps a persistence or infrastructure failure. The cause stays
// attached for logs, the caller only ever sees msg.
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf extracts the Kind from err, defaulting to KindInternal for
// unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	return KindInternal
}

// Message returns the caller-safe message for err. Unclassified errors are
// redacted to a generic message so internal detail never leaks.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Msg
	}

	return "internal server error"
}
