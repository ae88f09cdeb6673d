package sanitize

import (
	"errors"
	"fmt"
	"reflect"
)

// UnsupportedTypeError is returned when a value's type is not in the
// supported primitive set, is not built on one, and is not a composite.
type UnsupportedTypeError struct {
	// Type is the offending type. Nil for an untyped nil value.
	Type reflect.Type

	// Reason optionally narrows down why the type was refused.
	Reason string
}

// TypeName returns a printable name for the offending type.
func (e *UnsupportedTypeError) TypeName() string {
	if e.Type == nil {
		return "nil"
	}
	return e.Type.String()
}

// Error implements the error interface.
func (e *UnsupportedTypeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s is not a supported primitive type: %s", e.TypeName(), e.Reason)
	}
	return fmt.Sprintf("%s is not a supported primitive type", e.TypeName())
}

// IsUnsupportedType returns true if err is or wraps an UnsupportedTypeError.
func IsUnsupportedType(err error) bool {
	var ute *UnsupportedTypeError
	return errors.As(err, &ute)
}
