// Package domainerrors provides coded errors for the lifecycle engine.
//
// Services return these instead of raw errors so transport layers can map
// failures to responses without string matching, and so callers can branch
// on HasCode. Stores return sentinel errors (pkg/platform/sentinel); the
// service layer translates them into coded errors at the boundary.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	// Lifecycle taxonomy.
	CodeNotFound               Code = "not_found"
	CodeIllegalTransition      Code = "illegal_transition"
	CodeNotAuthorized          Code = "not_authorized"
	CodeMissingJustification   Code = "missing_justification"
	CodeConcurrentModification Code = "concurrent_modification"
	CodeSideEffectFailure      Code = "side_effect_failure"

	// Ambient codes.
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeValidation         Code = "validation_error"
	CodeUnauthorized       Code = "unauthorized"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal           Code = "internal_error"
)

// Error is a coded domain error. Message is safe to expose to API callers
// except for CodeInternal, where transports must omit it.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		if err == nil {
			break
		}
	}
	return false
}

// CodeOf returns the code of the outermost coded error, or CodeInternal if
// err carries no code.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the HTTP status used by the JSON error envelope.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeIllegalTransition, CodeConflict, CodeConcurrentModification:
		return http.StatusConflict
	case CodeNotAuthorized:
		return http.StatusForbidden
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeMissingJustification, CodeBadRequest, CodeInvalidInput, CodeValidation:
		return http.StatusBadRequest
	case CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case CodeSideEffectFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
