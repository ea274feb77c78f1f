// Package apperr defines the error values shared across the application.
package apperr

import "fmt"

// Error is a tagged application error. Message may contain printf verbs
// that are expanded with Fmt.
type Error struct {
	Cause   error
	Message string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Fmt expands the printf verbs in the error message with the provided
// arguments. The original error remains the target of errors.Is.
func (e *Error) Fmt(args ...any) *Error {
	return &Error{
		Message: fmt.Sprintf(e.Message, args...),
		Cause:   e,
	}
}

// Wrap associates an underlying cause with the error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		Message: e.Message,
		Cause:   err,
	}
}
