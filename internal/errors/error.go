package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryParse   Category = "parse"
	CategoryQuery   Category = "query"
	CategoryInstall Category = "install"
	CategoryConfig  Category = "config"
	CategoryCLI     Category = "cli"
	CategoryRequest Category = "request"
)

// KitError is a structured error with a registered code, detail text and
// an optional fix suggestion.
type KitError struct {
	// Code is a unique error identifier (e.g., "U001").
	Code string

	// Category is the error type (parse, query, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of this particular occurrence.
	Detail string

	// Input is the offending input, if any.
	Input string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *KitError) Error() string {
	msg := e.Message
	if e.Input != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Input)
	}
	if e.Detail != "" {
		msg = msg + " (" + e.Detail + ")"
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *KitError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a KitError carrying the same code.
func (e *KitError) Is(target error) bool {
	t, ok := target.(*KitError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithInput records the offending input.
func (e *KitError) WithInput(input string) *KitError {
	e.Input = input
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *KitError) WithSuggestion(s string) *KitError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *KitError) WithDetail(d string) *KitError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *KitError) Wrap(err error) *KitError {
	e.Wrapped = err
	return e
}

// New creates a KitError from a registered error code.
func New(code string) *KitError {
	template, ok := registry[code]
	if !ok {
		return &KitError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &KitError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new KitError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *KitError {
	return &KitError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a KitError.
func FromError(err error, code string) *KitError {
	if err == nil {
		return nil
	}
	if ke, ok := err.(*KitError); ok {
		return ke
	}
	return New(code).Wrap(err)
}
