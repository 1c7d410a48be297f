// Package apperr defines the error taxonomy shared by the services. Every
// error that crosses a service boundary carries a Kind so handlers can map it
// to a status code and callers can decide whether to fall back or surface it.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	KindNotConfigured      Kind = "NOT_CONFIGURED"
	KindInvalidInput       Kind = "INVALID_INPUT"
	KindRemoteFailure      Kind = "REMOTE_FAILURE"
	KindDuplicate          Kind = "DUPLICATE"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindUnknown            Kind = "UNKNOWN"
)

// Sentinels usable with errors.Is. Any *Error of the same kind matches.
var (
	NotConfigured      = &Error{Kind: KindNotConfigured}
	InvalidInput       = &Error{Kind: KindInvalidInput}
	RemoteFailure      = &Error{Kind: KindRemoteFailure}
	Duplicate          = &Error{Kind: KindDuplicate}
	InvalidCredentials = &Error{Kind: KindInvalidCredentials}
	Unknown            = &Error{Kind: KindUnknown}
)

// Error is a classified failure. Op names the operation, Msg is safe to show
// to a user, Err is the underlying cause (may be nil).
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so that errors.Is(err, apperr.Duplicate) works for
// any wrapped *Error of kind DUPLICATE.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// E builds a classified error.
func E(kind Kind, op, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: cause}
}

// Invalid is shorthand for an INVALID_INPUT error with a user-facing message.
func Invalid(op, msg string) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Msg: msg}
}

// Remote wraps a collaborator failure.
func Remote(op string, cause error) *Error {
	return &Error{Kind: KindRemoteFailure, Op: op, Msg: "remote call failed", Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or UNKNOWN.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the user-facing message of the first *Error in err's
// chain, falling back to its kind.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Msg != "" {
			return e.Msg
		}
		return string(e.Kind)
	}
	return "internal error"
}
