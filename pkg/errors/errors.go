// Package errors provides structured error types for the newsdata client.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or configuration validation failures
//   - NETWORK_*, DNS_*, TLS_*, TIMEOUT: Transport failures
//   - DECODE_ERROR: Response bodies that are not valid JSON
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "api key is required")
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDecode, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidParam  Code = "INVALID_PARAM"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Transport errors
	ErrCodeNetwork           Code = "NETWORK_ERROR"
	ErrCodeDNS               Code = "DNS_ERROR"
	ErrCodeConnectionRefused Code = "CONNECTION_REFUSED"
	ErrCodeTLS               Code = "TLS_ERROR"
	ErrCodeTimeout           Code = "TIMEOUT"
	ErrCodeCanceled          Code = "CANCELED"

	// Response errors
	ErrCodeDecode   Code = "DECODE_ERROR"
	ErrCodeAPIError Code = "API_ERROR"

	// Internal errors
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
// It unwraps the error chain looking for an *Error, *TransportError or
// [Coder] with a matching code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// Coder is implemented by error types defined outside this package that
// map onto a Code.
type Coder interface {
	ErrorCode() Code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the chain holds no *Error, *TransportError
// or [Coder].
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Code
	}
	var c Coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error and *TransportError, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Message
	}
	return err.Error()
}

// TransportError reports a failure below HTTP: DNS resolution, refused
// connections, TLS handshakes and timeouts. It is fatal to the attempt
// that produced it and is never retried.
type TransportError struct {
	Code    Code   // One of the transport error codes
	Message string // Description of the failure, free of credentials
	Cause   error  // Underlying network error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying network error.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the failure was a timeout.
func (e *TransportError) Timeout() bool {
	return e.Code == ErrCodeTimeout
}
