package semantic

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when the window has no rows.
	ErrEmptyInput = errors.New("empty analysis window")
	// ErrInsufficientData is matched by every *InsufficientDataError.
	ErrInsufficientData = errors.New("insufficient data")
)

// InsufficientDataError reports an indicator that is not yet available on
// the last row of the window. Callers may retry with a longer history.
type InsufficientDataError struct {
	Field string
	Rows  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %s not available on last row (window of %d rows)", e.Field, e.Rows)
}

func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}
