package service

import (
	"errors"
	"fmt"
)

// ErrBookingNotFound is returned when a booking id is unknown or released.
var ErrBookingNotFound = errors.New("booking not found")

// ValidationError reports a request the service refuses before touching
// storage: a missing or malformed date, or a reversed range.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StorageError wraps a persistence failure.  Op names the store call that
// failed; the underlying driver error is available through Unwrap.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
