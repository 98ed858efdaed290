package httperr

import (
	"errors"
	"net/http"
)

// ======================================================
// KINDS
// ======================================================

type Kind string

const (
	KindValidation   Kind = "validation_error"
	KindNotFound     Kind = "not_found"
	KindInvalidState Kind = "invalid_state"
	KindConflict     Kind = "conflict"
	KindForbidden    Kind = "forbidden"
	KindUnauthorized Kind = "unauthorized"
	KindInternal     Kind = "internal_error"
)

// Status maps a kind to the HTTP status answered at the request boundary.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindInvalidState:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// ======================================================
// BUSINESS ERROR
// ======================================================

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldError
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func New(kind Kind, code, message string) error {
	return BusinessError{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) error {
	return New(KindValidation, code, message)
}

func NotFoundErr(code, message string) error {
	return New(KindNotFound, code, message)
}

func InvalidState(code, message string) error {
	return New(KindInvalidState, code, message)
}

func Conflict(code, message string) error {
	return New(KindConflict, code, message)
}

func Forbidden(code, message string) error {
	return New(KindForbidden, code, message)
}

func UnauthorizedErr(code, message string) error {
	return New(KindUnauthorized, code, message)
}

// Fields reports one or more invalid input fields. It returns nil when
// fields is empty so callers can return it unconditionally.
func Fields(fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return BusinessError{
		Kind:    KindValidation,
		Code:    "validation_error",
		Message: "request validation failed",
		Fields:  fields,
	}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns the kind carried by err, or KindInternal for anything
// that is not a BusinessError.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}
