// Package apperr provides structured errors with machine-readable codes
// for the transcription service.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeInvalidInput indicates malformed caller-supplied data, rejected
	// before any external call.
	CodeInvalidInput Code = "INVALID_INPUT"
	// CodeNotFound indicates the referenced job or resource is absent.
	CodeNotFound Code = "NOT_FOUND"
	// CodeInconsistentState indicates the speech service reported a state
	// this system cannot reconcile (e.g. completed with no transcript).
	CodeInconsistentState Code = "INCONSISTENT_STATE"
	// CodeSchemaViolation indicates a fetched transcript document failed
	// structural validation.
	CodeSchemaViolation Code = "SCHEMA_VIOLATION"
	// CodeMaxRetriesExceeded is the batch-level circuit breaker: a queue
	// message was redelivered past the configured ceiling.
	CodeMaxRetriesExceeded Code = "MAX_RETRIES_EXCEEDED"
	// CodeInvalidBatch indicates at least one message in a dispatch batch
	// failed validation; the whole batch is rejected.
	CodeInvalidBatch Code = "INVALID_BATCH"
	// CodeDuplicateJob indicates a job with a colliding name already exists.
	CodeDuplicateJob Code = "DUPLICATE_JOB"
	// CodeInvalidFormat indicates a media key carries no usable file
	// extension, so no container format can be derived.
	CodeInvalidFormat Code = "INVALID_FORMAT"
)

// Error is the service-wide structured error type.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates a structured error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a structured error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a structured error around a cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the Code from err, or "" when err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// HTTPStatus maps an error to the HTTP status the router should answer with.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidInput, CodeInvalidBatch, CodeInvalidFormat, CodeSchemaViolation:
		return http.StatusBadRequest
	case CodeDuplicateJob:
		return http.StatusConflict
	case CodeInconsistentState, CodeMaxRetriesExceeded:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
