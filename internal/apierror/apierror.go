// Package apierror provides the error taxonomy shared by services and handlers.
// Every error returned to clients goes through this package so that responses
// carry a stable machine-readable code and never leak internal details
// (stack traces, SQL errors, etc.).
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine-readable error class sent to clients.
type Code string

const (
	CodeBadRequest   Code = "BAD_REQUEST"
	CodeNotFound     Code = "NOT_FOUND"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeConflict     Code = "CONFLICT"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeRateLimited  Code = "RATE_LIMITED"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a domain error with a code, a human message and, for validation
// failures, the offending fields.
type Error struct {
	Code    Code         `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Status maps the code to an HTTP status.
func (e *Error) Status() int {
	switch e.Code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Wrap attaches an underlying cause that is logged but never serialized.
func (e *Error) Wrap(cause error) *Error {
	e.cause = cause
	return e
}

func newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) *Error {
	return newf(CodeBadRequest, format, args...)
}
func NotFound(format string, args ...any) *Error   { return newf(CodeNotFound, format, args...) }
func Conflict(format string, args ...any) *Error   { return newf(CodeConflict, format, args...) }
func Validation(format string, args ...any) *Error { return newf(CodeValidation, format, args...) }
func Unauthorized(format string, args ...any) *Error {
	return newf(CodeUnauthorized, format, args...)
}
func Forbidden(format string, args ...any) *Error { return newf(CodeForbidden, format, args...) }
func Internal(format string, args ...any) *Error  { return newf(CodeInternal, format, args...) }

// NewValidation wraps multiple field errors.
func NewValidation(fields []FieldError) *Error {
	return &Error{Code: CodeValidation, Message: "validation failed", Fields: fields}
}

// From extracts an *Error from err's chain.
func From(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	apiErr, ok := From(err)
	return ok && apiErr.Code == code
}
