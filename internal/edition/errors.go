package edition

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoEditionStores means none of the configured store roots exist,
	// typically because no network volume is mounted.
	ErrNoEditionStores = errors.New("no edition stores available")

	// ErrNoEdition means at least one store is reachable but none of them
	// holds a directory for the requested date.
	ErrNoEdition = errors.New("no edition found")
)

// NoEditionError carries the date that could not be resolved.
type NoEditionError struct {
	Date time.Time
}

// Error implements the error interface.
func (e *NoEditionError) Error() string {
	return fmt.Sprintf("cannot find edition for %s", e.Date.Format(time.DateOnly))
}

// Unwrap returns ErrNoEdition.
func (e *NoEditionError) Unwrap() error { return ErrNoEdition }

// IsNoEdition reports whether err is (or wraps) a missing-edition condition.
func IsNoEdition(err error) bool {
	return errors.Is(err, ErrNoEdition)
}

// IsNoEditionStores reports whether err is (or wraps) ErrNoEditionStores.
func IsNoEditionStores(err error) bool {
	return errors.Is(err, ErrNoEditionStores)
}
