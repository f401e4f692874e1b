// Package errors provides structured error types for gvc.
//
// Every failure the engine surfaces carries a machine-readable [Code] so the
// CLI can decide whether to abort, skip an entry, or report and continue:
//
//   - VALIDATION_ERROR: missing catalog or invalid project layout, aborts before any network call
//   - PARSE_ERROR: malformed catalog or entry shape
//   - NETWORK_ERROR, UNRESOLVABLE_VERSION_REF: per-entry resolution failures, never abort a batch
//   - DUPLICATE_ALIAS, DUPLICATE_COORDINATE: conflicts that abort a single add
//   - CANCELLED: the user cancelled an interactive run, nothing is written
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateAlias, "alias %q already exists", alias)
//	if errors.Is(err, errors.ErrCodeDuplicateAlias) {
//	    // Handle conflict
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input and layout errors
	ErrCodeValidation   Code = "VALIDATION_ERROR"
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"
	ErrCodeParse        Code = "PARSE_ERROR"

	// Resolution errors
	ErrCodeNetwork                Code = "NETWORK_ERROR"
	ErrCodeUnresolvableVersionRef Code = "UNRESOLVABLE_VERSION_REF"

	// Conflict errors
	ErrCodeDuplicateAlias      Code = "DUPLICATE_ALIAS"
	ErrCodeDuplicateCoordinate Code = "DUPLICATE_COORDINATE"

	// Run control
	ErrCodeCancelled Code = "CANCELLED"

	// Side effects
	ErrCodeIO  Code = "IO_ERROR"
	ErrCodeVCS Code = "VCS_ERROR"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code,
// so an outer error with a different code does not hide an inner match.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsResolution reports whether err is a per-entry resolution failure.
func IsResolution(err error) bool {
	return Is(err, ErrCodeNetwork) || Is(err, ErrCodeUnresolvableVersionRef)
}

// IsConflict reports whether err is an alias or coordinate conflict.
func IsConflict(err error) bool {
	return Is(err, ErrCodeDuplicateAlias) || Is(err, ErrCodeDuplicateCoordinate)
}
