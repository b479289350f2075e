package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryNode     Category = "node"
	CategoryHost     Category = "host"
	CategoryForeign  Category = "foreign"
	CategoryDocument Category = "document"
	CategoryProtocol Category = "protocol"
	CategoryConfig   Category = "config"
)

// GraftError is a structured error with a registry code, tree path and hints.
type GraftError struct {
	// Code is a unique error identifier (e.g., "E200").
	Code string

	// Category is the error type (node, host, foreign, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Path locates the offending node inside the virtual tree, when known.
	Path string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *GraftError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *GraftError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a *GraftError with the same code.
func (e *GraftError) Is(target error) bool {
	t, ok := target.(*GraftError)
	if !ok || t.Code == "" {
		return false
	}
	return e.Code == t.Code
}

// WithPath records where in the virtual tree the error occurred.
func (e *GraftError) WithPath(path string) *GraftError {
	e.Path = path
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *GraftError) WithSuggestion(s string) *GraftError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *GraftError) WithDetail(d string) *GraftError {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with formatting.
func (e *GraftError) WithDetailf(format string, args ...any) *GraftError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *GraftError) Wrap(err error) *GraftError {
	e.Wrapped = err
	return e
}

// New creates a GraftError from a registered error code.
func New(code string) *GraftError {
	template, ok := registry[code]
	if !ok {
		return &GraftError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &GraftError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// Newf creates a new GraftError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *GraftError {
	return &GraftError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a GraftError.
// Errors that already are (or wrap) a GraftError are returned unchanged.
func FromError(err error, code string) *GraftError {
	if err == nil {
		return nil
	}
	var ge *GraftError
	if stderrors.As(err, &ge) {
		return ge
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is or wraps a GraftError with the given code.
func HasCode(err error, code string) bool {
	return stderrors.Is(err, &GraftError{Code: code})
}
