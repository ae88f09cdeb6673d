package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dbattr/internal/ir"
	"github.com/roach88/dbattr/internal/sanitize"
)

// SanitizedBlob is the payload of the sanitize command.
type SanitizedBlob struct {
	Kind string `json:"kind" yaml:"kind"`
	Blob string `json:"blob" yaml:"blob"`
}

func (b SanitizedBlob) String() string {
	return b.Blob
}

// NewSanitizeCommand creates the sanitize command.
func NewSanitizeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize",
		Short: "Sanitize a JSON value from stdin into a stored blob",
		Long: `Read one JSON value from stdin, reduce it to storable primitives and
print the tagged blob that would be stored.

Nested nulls are dropped; a top-level null fails with E005.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)

			dec := json.NewDecoder(cmd.InOrStdin())
			dec.UseNumber()

			var raw any
			if err := dec.Decode(&raw); err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeInvalidArgument,
					fmt.Sprintf("decode stdin: %v", err), nil)
			}

			v, err := sanitize.Sanitize(fromJSON(raw))
			if err != nil {
				return failWith(formatter, err)
			}

			blob, err := ir.EncodeBlob(v)
			if err != nil {
				return failWith(formatter, err)
			}

			return formatter.Success(SanitizedBlob{Kind: ir.Kind(v), Blob: string(blob)})
		},
	}
}

// fromJSON turns json.Number into int64 when integral, float64 otherwise.
func fromJSON(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = fromJSON(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = fromJSON(elem)
		}
		return out
	default:
		return v
	}
}
