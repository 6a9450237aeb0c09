package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a domain error that knows which HTTP status it maps to.
type Error struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

const (
	KindValidation = "validation"
	KindNotFound   = "not_found"
	KindPermission = "permission"
	KindEmptyCart  = "empty_cart"
	KindConflict   = "conflict"
	KindAuth       = "unauthorized"
)

func Validation(field, reason string) *Error {
	return &Error{Code: http.StatusBadRequest, Kind: KindValidation, Field: field, Message: reason}
}

func NotFound(what string) *Error {
	return &Error{Code: http.StatusNotFound, Kind: KindNotFound, Message: what + " not found"}
}

func Permission(msg string) *Error {
	if msg == "" {
		msg = "forbidden"
	}
	return &Error{Code: http.StatusForbidden, Kind: KindPermission, Message: msg}
}

// EmptyCart carries the message shown to the customer on checkout.
func EmptyCart() *Error {
	return &Error{Code: http.StatusBadRequest, Kind: KindEmptyCart, Message: "Your cart is empty"}
}

// Conflict is returned when a guarded status update loses the race or the
// current state does not allow the transition.
func Conflict(msg string) *Error {
	return &Error{Code: http.StatusConflict, Kind: KindConflict, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Code: http.StatusUnauthorized, Kind: KindAuth, Message: msg}
}

// Wrap attaches a cause to a domain error.
func Wrap(e *Error, cause error) *Error {
	out := *e
	out.Err = cause
	return &out
}

func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func Is(err error, kind string) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
