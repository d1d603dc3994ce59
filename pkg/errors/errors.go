// Package errors provides structured error types for the streamlytics application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and dashboard API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - NO_IMAGES, INVALID_INPUT: input validation failures
//   - FONT_NOT_FOUND, INVALID_COLOR, INSUFFICIENT_SPACE, INVALID_CONFIG:
//     configuration failures, always detected before compositing begins
//   - IMAGE_DECODE: a source file could not be decoded as an image
//   - NETWORK_ERROR, UNAUTHORIZED, RATE_LIMITED: Spotify API failures
//   - IO_ERROR, NOT_FOUND, INTERNAL_ERROR: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNoImages, "no images found in %s", dir)
//	if errors.Is(err, errors.ErrCodeNoImages) {
//	    // Handle empty input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeImageDecode, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors: the image set handed to the layout engine is unusable.
	ErrCodeNoImages     Code = "NO_IMAGES"
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// Configuration errors, raised before any compositing begins.
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeFontNotFound      Code = "FONT_NOT_FOUND"
	ErrCodeInvalidColor      Code = "INVALID_COLOR"
	ErrCodeInsufficientSpace Code = "INSUFFICIENT_SPACE"

	// Image decode errors
	ErrCodeImageDecode Code = "IMAGE_DECODE"

	// Filesystem errors
	ErrCodeIO       Code = "IO_ERROR"
	ErrCodeNotFound Code = "NOT_FOUND"

	// Spotify API errors
	ErrCodeNetwork      Code = "NETWORK_ERROR"
	ErrCodeUnauthorized Code = "UNAUTHORIZED"
	ErrCodeRateLimited  Code = "RATE_LIMITED"

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

// As is a passthrough to the standard library, so callers extracting a
// typed cause (like *RateLimitedError) need only one errors import.
func As(err error, target any) bool {
	return errors.As(err, target)
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

// IsConfiguration reports whether err carries any of the configuration error
// codes. Configuration errors are always raised before compositing begins, so
// a caller seeing one knows no output file was produced and no source image
// was decoded.
func IsConfiguration(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidConfig, ErrCodeFontNotFound, ErrCodeInvalidColor, ErrCodeInsufficientSpace:
		return true
	}
	return false
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
