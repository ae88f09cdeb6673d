package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/dbattr/internal/quality"
)

// QualityList is the payload of the qualities command.
type QualityList struct {
	Qualities []quality.Quality `json:"qualities" yaml:"qualities"`
}

func (l QualityList) String() string {
	var b strings.Builder
	for i, q := range l.Qualities {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-8s %d", q.Name, q.Rank)
	}
	return b.String()
}

// NewQualitiesCommand creates the qualities command.
func NewQualitiesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "qualities",
		Short: "List the quality registry, lowest rank first",
		Long: `List every quality the registry knows, lowest rank first.

The registry is the built-in catalog unless the config names a CUE file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)

			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
			}
			reg, err := cfg.Registry()
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
			}

			return formatter.Success(QualityList{Qualities: reg.All()})
		},
	}
}
