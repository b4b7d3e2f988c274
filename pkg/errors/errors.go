package errors

import (
	"errors"
	"fmt"
)

// Crawler error taxonomy
var (
	ErrAmbiguousKey       = errors.New("ambiguous key")
	ErrKeyNotFound        = errors.New("key not found")
	ErrNoMedia            = errors.New("entry has no media")
	ErrMediaIDParse       = errors.New("failed to parse media id")
	ErrMediaListMismatch  = errors.New("media lists are not aligned")
	ErrInvalidExtension   = errors.New("invalid extension")
	ErrInvalidRecordShape = errors.New("invalid record shape")
)

// Error represents a custom error type
type Error struct {
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// Wrapf is Wrap with a formatted message
func Wrapf(err error, format string, args ...any) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsLocate reports whether err comes from a required-key lookup
func IsLocate(err error) bool {
	return errors.Is(err, ErrKeyNotFound) || errors.Is(err, ErrAmbiguousKey)
}

// IsNoMedia returns true if the entry carried no recognizable attachment
func IsNoMedia(err error) bool {
	return errors.Is(err, ErrNoMedia)
}

// IsInvalidExtension returns true if no file extension could be derived
func IsInvalidExtension(err error) bool {
	return errors.Is(err, ErrInvalidExtension)
}

// IsInvalidRecordShape returns true if an entity is missing required fields
func IsInvalidRecordShape(err error) bool {
	return errors.Is(err, ErrInvalidRecordShape)
}
