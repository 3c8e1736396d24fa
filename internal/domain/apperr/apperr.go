// Package apperr defines the domain error taxonomy shared by the REST and
// WebSocket boundaries. Every engine failure carries a Kind so the HTTP
// layer can map it to a status class without string matching.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	NotFound
	Conflict
	Forbidden
	InvalidOperation
	LimitExceeded
	LastAdmin
	SelfReference
	Unauthorized
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Forbidden:
		return "forbidden"
	case InvalidOperation:
		return "invalid_operation"
	case LimitExceeded:
		return "limit_exceeded"
	case LastAdmin:
		return "last_admin"
	case SelfReference:
		return "self_reference"
	case Unauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf reports the Kind of err, or Internal when err does not carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// HTTPStatus maps a Kind to its status class: 4xx for client-caused
// failures, 500 for store failures.
func HTTPStatus(kind Kind) int {
	switch kind {
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Forbidden:
		return http.StatusForbidden
	case Unauthorized:
		return http.StatusUnauthorized
	case InvalidOperation, LimitExceeded, LastAdmin, SelfReference:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
