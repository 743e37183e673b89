// Package domainerrors provides coded errors for the domain layer.
//
// Services attach a stable Code to every error they return so callers and
// transports can branch on the kind of failure without string matching.
// Wrapping preserves the underlying cause for logs while the code travels
// to the boundary.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for programmatic handling.
type Code string

const (
	// CodeNotFound signals that a referenced entity does not resolve.
	CodeNotFound Code = "not_found"
	// CodeForbidden signals a policy denial: the request was understood and
	// rejected by an access rule working as designed.
	CodeForbidden Code = "forbidden"
	// CodeInvalidInput signals malformed or out-of-range caller input.
	CodeInvalidInput Code = "invalid_input"
	// CodeUnauthorized signals a failed or missing authentication.
	CodeUnauthorized Code = "unauthorized"
	// CodeConflict signals a uniqueness or state conflict.
	CodeConflict Code = "conflict"
	// CodeInternal signals an infrastructure fault (storage, IO), distinct
	// from CodeForbidden so consumers can tell "security worked" from
	// "something broke".
	CodeInternal Code = "internal"
)

// Error is a coded domain error.
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

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with a caller-facing message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause. A nil cause
// returns nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err, or any error it wraps, carries the code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// uncoded errors so nothing escapes unclassified.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
