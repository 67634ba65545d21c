// Package domainerrors provides code-based errors that cross the service
// boundary. Services attach a Code, the HTTP layer maps it to a status, and
// callers branch with HasCode instead of string matching.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for transport mapping and caller branching.
type Code string

const (
	// CodeBadRequest marks input that failed validation.
	CodeBadRequest Code = "bad_request"
	// CodeCapacityExceeded marks a registration attempt against a full roster.
	// Expected during normal operation; not logged as an error.
	CodeCapacityExceeded Code = "capacity_exceeded"
	// CodeDuplicateRegistrant marks a registration whose email or USN is
	// already on the roster.
	CodeDuplicateRegistrant Code = "duplicate_registrant"
	// CodeNotFound marks a missing record.
	CodeNotFound Code = "not_found"
	// CodeInternal marks infrastructure failures surfaced as a generic 500.
	CodeInternal Code = "internal"
)

// Error carries a code, a user-presentable message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause. The cause is kept
// for logging; Message is what callers may show to users.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// GetCode extracts the code from err, defaulting to CodeInternal for errors
// that did not originate in the domain layer.
func GetCode(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP response status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeCapacityExceeded, CodeDuplicateRegistrant:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
