package compare

import (
	"errors"
	"fmt"
)

// TypeError is returned when a comparison operand has a type the comparator
// cannot interpret.
type TypeError struct {
	// Value is the rejected operand.
	Value any

	// Want describes the accepted operand types.
	Want string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("cannot compare %T: expected %s", e.Value, e.Want)
}

// ValueError is returned when a text operand names a quality the registry
// does not know.
type ValueError struct {
	Name string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%q is not a valid quality", e.Name)
}

// IsTypeError checks if an error is a TypeError.
func IsTypeError(err error) bool {
	var te *TypeError
	return errors.As(err, &te)
}

// IsValueError checks if an error is a ValueError.
func IsValueError(err error) bool {
	var ve *ValueError
	return errors.As(err, &ve)
}
