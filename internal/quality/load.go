package quality

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaCUE string

// LoadError describes an invalid registry definition.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadFile reads a registry definition written in CUE:
//
//	qualities: [
//		{name: "sd", rank: 1},
//		{name: "hd", rank: 2},
//	]
//
// The file is unified with an embedded schema before decoding, so typos in
// field names and non-integer ranks are reported with their position.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quality registry: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes a CUE registry definition. filename is used in positions.
func Parse(filename string, src []byte) (*Set, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile quality schema: %w", err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	if !v.LookupPath(cue.ParsePath("qualities")).Exists() {
		return nil, &LoadError{Field: "qualities", Message: "qualities is required"}
	}

	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	list := unified.LookupPath(cue.ParsePath("qualities"))

	var qualities []Quality
	if err := list.Decode(&qualities); err != nil {
		return nil, formatCUEError(err)
	}

	set, err := NewSet(qualities...)
	if err != nil {
		return nil, &LoadError{Field: "qualities", Message: err.Error(), Pos: list.Pos()}
	}
	return set, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &LoadError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
