// Package errors provides structured error types for binpatch.
//
// Every failure the edit core can raise carries a machine-readable [Code],
// so callers can tell a broken edit script apart from a malformed document or
// a failing external tool without matching on message text.
//
// # Error Codes
//
// The edit core raises three fatal classes:
//   - STRUCTURAL_LOOKUP: remove/modify addressed a field that does not exist
//   - UNSUPPORTED_VARIANT: a value variant that is declared but not implemented
//     (mtx44, file, link) was constructed
//   - INVALID_TRANSFORM: a transform has a shape that cannot be normalized
//
// The remaining codes cover the surrounding tool: documents, scripts,
// configuration, paths and external processes.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeStructuralLookup, "key %q not found", key)
//	if errors.Is(err, errors.ErrCodeStructuralLookup) {
//	    // Handle missing field
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeToolFailed, origErr, "ritobin exited")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Edit core errors
	ErrCodeStructuralLookup   Code = "STRUCTURAL_LOOKUP"
	ErrCodeUnsupportedVariant Code = "UNSUPPORTED_VARIANT"
	ErrCodeInvalidTransform   Code = "INVALID_TRANSFORM"
	ErrCodeInvalidValue       Code = "INVALID_VALUE"

	// Input validation errors
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidScript   Code = "INVALID_SCRIPT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeToolFailed   Code = "TOOL_FAILED"

	// Internal errors
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

// IsFatal reports whether err belongs to one of the edit core's fatal
// classes. Fatal errors indicate a defect in the edit script or the value
// model rather than in the data being edited.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeStructuralLookup, ErrCodeUnsupportedVariant, ErrCodeInvalidTransform:
		return true
	}
	return false
}
