package cli

import (
	"database/sql"
	"errors"

	"github.com/roach88/dbattr/internal/column"
	"github.com/roach88/dbattr/internal/compare"
	"github.com/roach88/dbattr/internal/quality"
	"github.com/roach88/dbattr/internal/sanitize"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric          = "E001" // Generic/unknown error
	ErrCodeInvalidArgument  = "E002" // Bad command-line argument
	ErrCodeNotFound         = "E003" // Row not found
	ErrCodeUnknownQuality   = "E004" // Quality name not in the registry
	ErrCodeUnsupportedValue = "E005" // Value cannot be sanitized or compared
	ErrCodeBadDate          = "E006" // Date text does not match YYYY-MM-DD
	ErrCodeDatabase         = "E007" // Database open/read/write failure
	ErrCodeConfig           = "E008" // Config or registry file invalid
)

// classifyError maps a domain error to an exit code and error code.
func classifyError(err error) (exitCode int, code string) {
	var loadErr *quality.LoadError
	switch {
	case compare.IsValueError(err):
		return ExitFailure, ErrCodeUnknownQuality
	case compare.IsTypeError(err), sanitize.IsUnsupportedType(err):
		return ExitFailure, ErrCodeUnsupportedValue
	case column.IsFormatError(err):
		return ExitFailure, ErrCodeBadDate
	case errors.Is(err, sql.ErrNoRows):
		return ExitFailure, ErrCodeNotFound
	case errors.As(err, &loadErr):
		return ExitCommandError, ErrCodeConfig
	default:
		return ExitCommandError, ErrCodeGeneric
	}
}

// failWith reports err through the formatter using its classified codes.
func failWith(f *OutputFormatter, err error) error {
	exitCode, code := classifyError(err)
	return f.Fail(exitCode, code, err.Error(), nil)
}
