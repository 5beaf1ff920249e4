// Package errors provides the structured error type used throughout
// borgspace. Every error carries a category code, a human message, and
// optionally a suggestion for fixing the problem and an underlying cause.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing failures.
const (
	ErrConfig  = "CONFIG"  // settings file problems
	ErrSpec    = "SPEC"    // malformed repository specification
	ErrGroup   = "GROUP"   // unknown repository group
	ErrCycle   = "CYCLE"   // self-referential group expansion
	ErrDefault = "DEFAULT" // empty request with no configured default
	ErrFetch   = "FETCH"   // metrics source unreachable or incomplete
	ErrStyle   = "STYLE"   // unrecognized report style
	ErrSSH     = "SSH"     // transport failures
)

// Error is a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// WrapWithCode wraps an existing error with a code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks whether err is (or wraps) a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var bsErr *Error
	if errors.As(err, &bsErr) {
		return bsErr.Code == code
	}
	return false
}
