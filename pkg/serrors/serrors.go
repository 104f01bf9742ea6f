// Package serrors implements semantic errors: a small set of kinds that
// classify failures, each optionally carrying a user-facing message and a
// private cause.
package serrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a marker interface implemented by all semantic error kinds created
// with NewKind. It allows distinguishing semantic kinds from ordinary errors.
type Kind interface {
	error
	isKind()
}

// kind is an unexported implementation of Kind used as a sentinel value for a
// semantic error category.
type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind (a sentinel) with the provided
// name/description. Kinds are comparable and can be used with errors.Is/As
// through the serrors.Error wrapper.
func NewKind(name string) Kind { return kind{s: name} }

// Default Kinds mirror the failure taxonomy of the site services. Each kind
// maps to exactly one user-visible outcome; see HTTPStatus.
var (
	// ErrTransport indicates a network or fetch level failure on the client side.
	ErrTransport = NewKind("TRANSPORT")
	// ErrValidation indicates the caller sent data violating a field rule.
	ErrValidation = NewKind("VALIDATION")
	// ErrUnsupported indicates a request body encoding the server does not accept.
	ErrUnsupported = NewKind("UNSUPPORTED")
	// ErrConfiguration indicates a deployment defect such as a missing secret.
	ErrConfiguration = NewKind("CONFIGURATION")
	// ErrUpstream indicates a third-party provider rejected or failed the call.
	ErrUpstream = NewKind("UPSTREAM")
	// ErrUnexpected is the catch-all for anything not classified above.
	ErrUnexpected = NewKind("UNEXPECTED")
)

// HTTPStatus maps the kind carried by err to the status code a handler should
// respond with. Unclassified errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstream), errors.Is(err, ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message attached to a semantic error, or
// fallback when err is not an *Error or carries no message. The wrapped
// cause is never part of the result.
func PublicMessage(err error, fallback string) string {
	var se *Error
	if errors.As(err, &se) && se.Message() != "" {
		return se.Message()
	}

	return fallback
}

// Error is a semantic error: a kind, an optional cause and an optional
// message meant for the end user. errors.Is and errors.As see both the kind
// and the cause.
//
// Error() renders "<msg>: <cause>", "<msg>", "<cause>" or the kind name,
// whichever parts are present. Handlers must use Message (or PublicMessage)
// when writing responses so that causes stay in the logs.
type Error struct {
	kind  Kind
	cause error
	msg   string
}

// With builds an error of kind k with a formatted user-facing message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap builds an error of kind k around cause with a formatted message.
func Wrap(k Kind, cause error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, cause: cause, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly builds an error carrying nothing but its kind.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.msg != "" && e.cause != nil:
		return e.msg + ": " + e.cause.Error()
	case e.msg != "":
		return e.msg
	case e.cause != nil:
		return e.cause.Error()
	case e.kind != nil:
		return e.kind.Error()
	}

	return "unknown error"
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is the kind sentinel or anywhere in the cause chain.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}

	return e.cause != nil && errors.Is(e.cause, target)
}

// As extracts either the kind or a value from the cause chain into target.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}

	return e.cause != nil && errors.As(e.cause, target)
}

// Kind returns the kind sentinel, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the user-facing message.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped cause, which may be nil.
func (e *Error) Cause() error { return e.cause }
