package page

import (
	"errors"
	"fmt"
)

// ErrInvalidFilename is the sentinel every filename rejection unwraps to.
var ErrInvalidFilename = errors.New("invalid filename")

// InvalidFilenameError reports a filename that cannot be turned into a Page.
type InvalidFilenameError struct {
	Name   string // Base name that was rejected
	Reason string // Short description of the failed rule
}

// NewInvalidFilenameError creates an InvalidFilenameError for name.
func NewInvalidFilenameError(name, reason string) *InvalidFilenameError {
	return &InvalidFilenameError{Name: name, Reason: reason}
}

// Error implements the error interface.
func (e *InvalidFilenameError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is an invalid filename", e.Name)
	}
	return fmt.Sprintf("%s is an invalid filename: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidFilename so callers can use errors.Is.
func (e *InvalidFilenameError) Unwrap() error {
	return ErrInvalidFilename
}

// IsInvalidFilename reports whether err is (or wraps) a filename rejection.
func IsInvalidFilename(err error) bool {
	return errors.Is(err, ErrInvalidFilename)
}
