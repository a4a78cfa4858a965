// Package errors provides structured error types for flowcanvas.
//
// Every failure the graph engine can report carries a machine-readable
// [Code] so that callers (the CLI, the HTTP API, embedding hosts) can react
// to the kind of failure without parsing messages.
//
// # Error Codes
//
// Graph codes mirror the engine's failure taxonomy:
//   - NODE_NOT_FOUND, PORT_NOT_FOUND, MODULE_NOT_FOUND
//   - CROSS_MODULE_EDGE: an edge was requested between two modules
//   - CANNOT_REMOVE_DEFAULT_MODULE, MODULE_ALREADY_EXISTS
//   - INVALID_ARITY: negative port counts
//   - INVALID_LISTENER, INVALID_EVENT_NAME: event bus misuse
//
// Ambient codes (INVALID_INPUT, INVALID_FORMAT, ...) cover configuration
// and I/O.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNodeNotFound, "node %s not found", id)
//	if errors.Is(err, errors.ErrCodeNodeNotFound) {
//	    // Handle missing node
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Graph lookup errors
	ErrCodeNodeNotFound   Code = "NODE_NOT_FOUND"
	ErrCodePortNotFound   Code = "PORT_NOT_FOUND"
	ErrCodeModuleNotFound Code = "MODULE_NOT_FOUND"

	// ErrCodeConnectionNotFound is reported by reroute operations addressed
	// at an edge that does not exist.
	ErrCodeConnectionNotFound Code = "CONNECTION_NOT_FOUND"

	// Graph structure errors
	ErrCodeCrossModuleEdge           Code = "CROSS_MODULE_EDGE"
	ErrCodeCannotRemoveDefaultModule Code = "CANNOT_REMOVE_DEFAULT_MODULE"
	ErrCodeModuleAlreadyExists       Code = "MODULE_ALREADY_EXISTS"
	ErrCodeInvalidArity              Code = "INVALID_ARITY"

	// Event bus errors
	ErrCodeInvalidListener  Code = "INVALID_LISTENER"
	ErrCodeInvalidEventName Code = "INVALID_EVENT_NAME"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
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
		return e.Message
	}
	return err.Error()
}

// IsNotFound reports whether err is any of the lookup failures.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeNodeNotFound, ErrCodePortNotFound, ErrCodeModuleNotFound, ErrCodeConnectionNotFound:
		return true
	}
	return false
}
