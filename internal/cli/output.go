package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Process exit codes. ExitFailure means the catalog answered but the input
// was refused (unknown quality, unsupported value, malformed date, missing
// row). ExitCommandError means the command could not run at all.
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitCommandError = 2
)

// Envelope status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ExitError carries the process exit code out of a command's RunE.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// GetExitCode returns the exit code for an error returned by a command.
// Errors that did not go through Fail exit with ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Envelope wraps every json and yaml result so scripts can branch on Status
// before reading Data or Error.
type Envelope struct {
	Status string   `json:"status" yaml:"status"`
	Data   any      `json:"data,omitempty" yaml:"data,omitempty"`
	Error  *Problem `json:"error,omitempty" yaml:"error,omitempty"`
}

// Problem describes a refused command. Code is one of the ErrCode values.
type Problem struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Details any    `json:"details,omitempty" yaml:"details,omitempty"`
}

// OutputFormatter prints command results as text, json or yaml.
//
// Results and problems go to Writer. VerboseLog goes to ErrWriter when set,
// keeping structured output parseable.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

func (f *OutputFormatter) structured() bool {
	return f.Format == "json" || f.Format == "yaml"
}

func (f *OutputFormatter) write(env Envelope) error {
	if f.Format != "yaml" {
		return json.NewEncoder(f.Writer).Encode(env)
	}
	enc := yaml.NewEncoder(f.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(env); err != nil {
		return err
	}
	return enc.Close()
}

// Success prints a result. In text mode data is printed with fmt, so the
// view types (SeriesList, ReleaseView, QualityList...) implement Stringer.
func (f *OutputFormatter) Success(data any) error {
	if f.structured() {
		return f.write(Envelope{Status: StatusOK, Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Report prints a problem. Text mode shows details only when verbose.
func (f *OutputFormatter) Report(p Problem) error {
	if f.structured() {
		return f.write(Envelope{Status: StatusError, Error: &p})
	}
	if _, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", p.Code, p.Message); err != nil {
		return err
	}
	if f.Verbose && p.Details != nil {
		_, err := fmt.Fprintf(f.Writer, "Details: %v\n", p.Details)
		return err
	}
	return nil
}

// Fail reports a problem and returns the error RunE should return, so the
// process exits with exitCode.
func (f *OutputFormatter) Fail(exitCode int, code, message string, details any) error {
	_ = f.Report(Problem{Code: code, Message: message, Details: details})
	return &ExitError{Code: exitCode, Message: code + ": " + message}
}

// VerboseLog prints a progress line when --verbose is set.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
