package cli

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/dbattr/internal/config"
	"github.com/roach88/dbattr/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "text" | "json" | "yaml"
	Config   string // config file path
	Database string // overrides the configured database path

	cfg *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the dbattr CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "dbattr",
		Short: "dbattr - typed attributes over a SQLite series catalog",
		Long: `Store series and releases with virtual attributes: pipe-delimited lists,
date text, sanitized blobs, case-insensitive names and ranked qualities
that compare the same way in Go and in SQL.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.setupLogging()
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file (default: ./dbattr.yaml)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "database path (overrides config)")

	// Add subcommands
	cmd.AddCommand(NewQualitiesCommand(opts))
	cmd.AddCommand(NewCompareCommand(opts))
	cmd.AddCommand(NewSanitizeCommand(opts))
	cmd.AddCommand(NewSeriesCommand(opts))
	cmd.AddCommand(NewReleaseCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// loadConfig loads configuration once per invocation.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}
	cfg, err := config.Load(o.Config)
	if err != nil {
		return nil, err
	}
	if o.Database != "" {
		cfg.Database = o.Database
	}
	o.cfg = cfg
	return cfg, nil
}

// setupLogging installs the default slog handler on stderr. --verbose
// forces debug; otherwise the configured level applies.
func (o *RootOptions) setupLogging() error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}

	logLevel, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	if o.Verbose {
		logLevel = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
	return nil
}

// openStore opens the configured database with the configured registry.
// Callers must close the returned store.
func (o *RootOptions) openStore() (*store.Store, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}

	slog.Debug("opening database", "path", cfg.Database)
	s, err := store.Open(cfg.Database, store.WithRegistry(reg))
	if err != nil {
		return nil, err
	}
	return s, nil
}

// formatter builds the output formatter for a command.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting structured output
		Verbose:   o.Verbose,
	}
}

// closeStore closes s, logging failures.
func closeStore(s *store.Store) {
	if err := s.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
