package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dbattr/internal/compare"
	"github.com/roach88/dbattr/internal/queryir"
	"github.com/roach88/dbattr/internal/querysql"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	Column string
}

// ComparisonSQL is the payload of the compare command.
type ComparisonSQL struct {
	SQL  string `json:"sql" yaml:"sql"`
	Args []any  `json:"args" yaml:"args"`
}

func (c ComparisonSQL) String() string {
	return fmt.Sprintf("%s\n-- args: %v", c.SQL, c.Args)
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare <op> <quality>",
		Short: "Render a quality comparison as SQL",
		Long: `Render the SQL predicate that compares a stored quality column by rank.

<op> is one of = != < <= > >= (or eq ne lt le gt ge).
Unknown quality names fail with E004.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Column, "column", "quality", "quality column to compare")

	return cmd
}

func runCompare(opts *CompareOptions, opText, name string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	op, err := queryir.ParseOp(opText)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgument, err.Error(), nil)
	}
	if !queryir.ValidIdent(opts.Column) {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgument,
			fmt.Sprintf("column %q is not an identifier", opts.Column), nil)
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}
	reg, err := cfg.Registry()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	comparator := compare.QualityComparator{Column: queryir.Col(opts.Column), Registry: reg}
	expr, err := comparator.Operate(op, name)
	if err != nil {
		return failWith(formatter, err)
	}

	sql, sqlArgs, err := querysql.NewSQLCompiler().CompileExpr(expr)
	if err != nil {
		return failWith(formatter, err)
	}
	formatter.VerboseLog("%s %s resolves to rank comparison over %d qualities", op, name, len(reg.All()))

	return formatter.Success(ComparisonSQL{SQL: sql, Args: sqlArgs})
}
