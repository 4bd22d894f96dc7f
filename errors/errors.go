// Package errors defines the sentinel error values returned by the sfs and
// blockdevice packages, along with a small wrapper type for attaching
// context to them without losing Is/As compatibility with the standard
// library's errors package.
package errors

import "fmt"

// SfsError is a sentinel error condition. Unlike a wrapped error, a bare
// SfsError carries no call-specific context; use WithMessage or WrapError to
// attach some while keeping errors.Is(err, theSentinel) working.
type SfsError interface {
	error
	WithMessage(message string) SfsError
	WrapError(err error) SfsError
}

// contextualError decorates a sentinel with a message and, for WrapError, an
// underlying cause. It keeps both the sentinel and the cause reachable via
// Unwrap so errors.Is matches either one.
type contextualError struct {
	message string
	parents []error
}

func (e contextualError) Error() string {
	return e.message
}

func (e contextualError) WithMessage(message string) SfsError {
	return contextualError{
		message: fmt.Sprintf("%s: %s", e.message, message),
		parents: []error{e},
	}
}

func (e contextualError) WrapError(err error) SfsError {
	return contextualError{
		message: fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		parents: []error{e, err},
	}
}

func (e contextualError) Unwrap() []error {
	return e.parents
}
