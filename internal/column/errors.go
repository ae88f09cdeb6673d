package column

import (
	"errors"
	"fmt"
)

// FormatError is returned when text assigned to a typed column does not
// match the required layout.
type FormatError struct {
	Input  string
	Layout string
	Err    error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("%q does not match layout %s", e.Input, e.Layout)
}

// Unwrap returns the underlying parse error.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsFormatError returns true if err is or wraps a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
