package manager

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSelection is returned when an action needs a task position and
	// none, or one outside the list, was given.
	ErrNoSelection = errors.New("no task selected")

	ErrEmptyField      = errors.New("required field is empty")
	ErrInvalidDate     = errors.New("invalid due date")
	ErrInvalidPriority = errors.New("invalid priority")
)

// ValidationError rejects input before any list is touched.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
