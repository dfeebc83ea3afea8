package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure that crosses the engine boundary.
type ErrorKind string

const (
	KindValidation               ErrorKind = "validation_error"
	KindInvalidTransition        ErrorKind = "invalid_transition"
	KindForbidden                ErrorKind = "forbidden"
	KindNotFound                 ErrorKind = "not_found"
	KindInactive                 ErrorKind = "inactive"
	KindExpired                  ErrorKind = "expired"
	KindNotApplicableToUser      ErrorKind = "not_applicable_to_user"
	KindNotApplicableToProperty  ErrorKind = "not_applicable_to_property"
	KindInvalidRateConfiguration ErrorKind = "invalid_rate_configuration"
	KindConflict                 ErrorKind = "conflict"
	KindUnauthorized             ErrorKind = "unauthorized"
	KindAccessDenied             ErrorKind = "access_denied"
	KindLimitReached             ErrorKind = "limit_reached"
	KindInternal                 ErrorKind = "internal"
)

// Error is the single typed error shape shared by the engine, the HTTP layer
// and the API client.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrForbidden) works
// regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation               = &Error{Kind: KindValidation}
	ErrInvalidTransition        = &Error{Kind: KindInvalidTransition}
	ErrForbidden                = &Error{Kind: KindForbidden}
	ErrNotFound                 = &Error{Kind: KindNotFound}
	ErrInactive                 = &Error{Kind: KindInactive}
	ErrExpired                  = &Error{Kind: KindExpired}
	ErrNotApplicableToUser      = &Error{Kind: KindNotApplicableToUser}
	ErrNotApplicableToProperty  = &Error{Kind: KindNotApplicableToProperty}
	ErrInvalidRateConfiguration = &Error{Kind: KindInvalidRateConfiguration}
	ErrConflict                 = &Error{Kind: KindConflict}
	ErrUnauthorized             = &Error{Kind: KindUnauthorized}
	ErrAccessDenied             = &Error{Kind: KindAccessDenied}
	ErrLimitReached             = &Error{Kind: KindLimitReached}
)

func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return NewError(KindValidation, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return NewError(KindForbidden, format, args...)
}

func InvalidTransition(format string, args ...any) *Error {
	return NewError(KindInvalidTransition, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return NewError(KindNotFound, format, args...)
}

// KindOf reports the kind of err, or KindInternal for errors that are not
// *Error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
