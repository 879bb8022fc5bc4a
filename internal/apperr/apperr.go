// Package apperr defines the error kinds returned at every service boundary.
// Handlers translate a Kind into an HTTP status; nothing else inspects messages.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindInactive     Kind = "inactive"
	KindForbidden    Kind = "forbidden"
	KindUnauthorized Kind = "unauthorized"
	KindUnavailable  Kind = "unavailable"
	KindPersistence  Kind = "persistence"
)

type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

func Validationf(op, format string, args ...any) error {
	return newf(KindValidation, op, format, args...)
}

func NotFoundf(op, format string, args ...any) error {
	return newf(KindNotFound, op, format, args...)
}

func Inactivef(op, format string, args ...any) error {
	return newf(KindInactive, op, format, args...)
}

func Forbiddenf(op, format string, args ...any) error {
	return newf(KindForbidden, op, format, args...)
}

func Unauthorizedf(op, format string, args ...any) error {
	return newf(KindUnauthorized, op, format, args...)
}

func Unavailablef(op, format string, args ...any) error {
	return newf(KindUnavailable, op, format, args...)
}

// Persistence wraps a store failure. The underlying error is kept for logs but
// its text is not shown to API clients.
func Persistence(op string, err error) error {
	return &Error{Kind: KindPersistence, Op: op, Err: err}
}

// KindOf returns the kind of err. Errors that did not come from this package
// are treated as persistence failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns a client-safe description of err.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindPersistence {
		return "internal server error"
	}
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}
