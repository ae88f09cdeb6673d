package column

import (
	"fmt"

	"github.com/roach88/dbattr/internal/ir"
	"github.com/roach88/dbattr/internal/sanitize"
)

// SanitizedBlob presents a BLOB column as an ir.Value tree.
// Every assignment passes through sanitize.Sanitize, so only the closed
// primitive set is ever persisted.
type SanitizedBlob struct {
	Raw *[]byte
}

// Get decodes the stored value. Returns nil, nil when the column is empty.
func (b SanitizedBlob) Get() (ir.Value, error) {
	if b.Raw == nil {
		return nil, nil
	}
	v, err := ir.DecodeBlob(*b.Raw)
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return v, nil
}

// Set sanitizes v and stores its encoding.
// A top-level unsupported type returns *sanitize.UnsupportedTypeError and
// the column is left untouched.
func (b SanitizedBlob) Set(v any) error {
	clean, err := sanitize.Sanitize(v)
	if err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	data, err := ir.EncodeBlob(clean)
	if err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	*b.Raw = data
	return nil
}

// Clear stores NULL.
func (b SanitizedBlob) Clear() {
	*b.Raw = nil
}
