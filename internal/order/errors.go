package order

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrItemNotFound    = errors.New("line item not found in this order")
	ErrProductNotFound = errors.New("product not found")
	ErrForbidden       = errors.New("you do not have permission to view this order")
)

// ValidationError marks caller-fixable input problems (maps to 400).
type ValidationError struct{ Reason string }

func (e *ValidationError) Error() string { return e.Reason }

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// LockedError rejects mutation of an order in a non-editable status.
type LockedError struct{ Status Status }

func (e *LockedError) Error() string {
	return fmt.Sprintf("order in status %q cannot be modified", e.Status)
}

// PersistenceError wraps storage failures without leaking their detail.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return "storage failure during " + e.Op }
func (e *PersistenceError) Unwrap() error { return e.Err }

func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
