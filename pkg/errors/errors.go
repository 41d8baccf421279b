// Package errors provides structured error types for tcgprint.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages naming the failing constraint or file
//   - Error wrapping with context preservation
//
// # Error Kinds
//
// Codes are grouped into the kinds a run can fail with:
//   - Input: the input directory is missing, holds no usable image, or a
//     setting is out of range. Fatal, raised before layout.
//   - Layout: the requested grid cannot fit the page. Fatal, raised before
//     rendering.
//   - ImageProcessing: one card failed to decode or resize. Recoverable; the
//     compositor records it and leaves the cell blank.
//   - Export: the output document could not be written. Fatal, raised after
//     rendering; no partial file is left behind.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeTooTall, "%d rows is too tall for this page height", rows)
//	if errors.IsLayout(err) {
//	    // Report the geometry problem
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExport, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInputNotFound Code = "INPUT_NOT_FOUND"
	ErrCodeNoImages      Code = "NO_IMAGES"

	// Layout errors
	ErrCodeTooNarrow    Code = "LAYOUT_TOO_NARROW"
	ErrCodeTooTall      Code = "LAYOUT_TOO_TALL"
	ErrCodeZeroCapacity Code = "LAYOUT_ZERO_CAPACITY"

	// Per-image errors
	ErrCodeImageProcessing Code = "IMAGE_PROCESSING"

	// Output errors
	ErrCodeExport Code = "EXPORT_FAILED"

	// Run errors
	ErrCodeCanceled Code = "CANCELED"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Kind groups codes by how a run reacts to them.
type Kind int

const (
	KindUnknown Kind = iota
	KindInput
	KindLayout
	KindImageProcessing
	KindExport
	KindCanceled
)

// String returns the kind name used in logs and API responses.
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindLayout:
		return "layout"
	case KindImageProcessing:
		return "image_processing"
	case KindExport:
		return "export"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Kind returns the kind a code belongs to.
func (c Code) Kind() Kind {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInputNotFound, ErrCodeNoImages:
		return KindInput
	case ErrCodeTooNarrow, ErrCodeTooTall, ErrCodeZeroCapacity:
		return KindLayout
	case ErrCodeImageProcessing:
		return KindImageProcessing
	case ErrCodeExport:
		return KindExport
	case ErrCodeCanceled:
		return KindCanceled
	default:
		return KindUnknown
	}
}

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

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	return GetCode(err).Kind()
}

// IsInput reports whether err is an input error.
func IsInput(err error) bool { return KindOf(err) == KindInput }

// IsLayout reports whether err is a layout error.
func IsLayout(err error) bool { return KindOf(err) == KindLayout }

// IsExport reports whether err is an export error.
func IsExport(err error) bool { return KindOf(err) == KindExport }

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message (and cause) without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
