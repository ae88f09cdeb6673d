package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/dbattr/internal/ir"
	"github.com/roach88/dbattr/internal/store"
)

// SeriesOptions holds flags for series add.
type SeriesOptions struct {
	*RootOptions
	Genres    string
	Premiered string
	Status    string
	Schedule  string
}

// SeriesView is the printable form of a series.
type SeriesView struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Genres    []string `json:"genres,omitempty" yaml:"genres,omitempty"`
	Premiered string   `json:"premiered,omitempty" yaml:"premiered,omitempty"`
	Status    string   `json:"status,omitempty" yaml:"status,omitempty"`
	Schedule  any      `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	Expired   bool     `json:"expired" yaml:"expired"`
}

func (v SeriesView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s", v.ID, v.Name)
	if v.Premiered != "" {
		fmt.Fprintf(&b, " (%s)", v.Premiered)
	}
	if len(v.Genres) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(v.Genres, ", "))
	}
	if v.Status != "" {
		fmt.Fprintf(&b, " %s", v.Status)
	}
	if v.Expired {
		b.WriteString(" *expired*")
	}
	return b.String()
}

// SeriesList is the payload of series find and series year.
type SeriesList struct {
	Series []SeriesView `json:"series" yaml:"series"`
}

func (l SeriesList) String() string {
	if len(l.Series) == 0 {
		return "no series"
	}
	lines := make([]string, len(l.Series))
	for i, v := range l.Series {
		lines[i] = v.String()
	}
	return strings.Join(lines, "\n")
}

// newSeriesView reads every attribute of s. Expiry is judged against now.
func newSeriesView(s *store.Series, now time.Time, interval time.Duration) SeriesView {
	view := SeriesView{
		ID:      s.ID,
		Name:    s.RawName.String,
		Genres:  s.Genres().Get(),
		Expired: s.Expired(now, interval),
	}
	if s.Status.Valid {
		view.Status = s.Status.String
	}
	if _, ok := s.Premiered().Get(); ok {
		view.Premiered = s.RawPremiered.Time.Format(time.DateOnly)
	}
	if sched, err := s.Schedule().Get(); err == nil && sched != nil {
		view.Schedule = ir.Native(sched)
	}
	return view
}

// NewSeriesCommand creates the series command group.
func NewSeriesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Add and query series",
	}

	cmd.AddCommand(newSeriesAddCommand(rootOpts))
	cmd.AddCommand(newSeriesFindCommand(rootOpts))
	cmd.AddCommand(newSeriesYearCommand(rootOpts))

	return cmd
}

func newSeriesAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeriesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a series",
		Long: `Add a series to the catalog.

--genres takes a pipe or comma separated list.
--premiered takes a YYYY-MM-DD date; anything else fails with E006.
--schedule takes a JSON value that is sanitized before storing.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeriesAdd(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Genres, "genres", "", "genres, pipe or comma separated")
	cmd.Flags().StringVar(&opts.Premiered, "premiered", "", "premiere date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "airing status")
	cmd.Flags().StringVar(&opts.Schedule, "schedule", "", "airing schedule as JSON")

	return cmd
}

func runSeriesAdd(opts *SeriesOptions, name string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	series := &store.Series{}
	series.Name().Set(name)

	if opts.Genres != "" {
		series.Genres().Set(splitList(opts.Genres))
	}
	if opts.Status != "" {
		series.Status.String, series.Status.Valid = opts.Status, true
	}
	if opts.Premiered != "" {
		if err := series.Premiered().SetText(opts.Premiered); err != nil {
			return failWith(formatter, err)
		}
	}
	if opts.Schedule != "" {
		dec := json.NewDecoder(strings.NewReader(opts.Schedule))
		dec.UseNumber()
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidArgument,
				fmt.Sprintf("decode --schedule: %v", err), nil)
		}
		if err := series.Schedule().Set(fromJSON(raw)); err != nil {
			return failWith(formatter, err)
		}
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}
	s, err := opts.openStore()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
	}
	defer closeStore(s)

	now := time.Now()
	series.LastUpdate.Time, series.LastUpdate.Valid = now, true

	if err := s.AddSeries(context.Background(), nil, series); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
	}
	formatter.VerboseLog("added series %s", series.ID)

	return formatter.Success(newSeriesView(series, now, cfg.ExpireInterval()))
}

func newSeriesFindCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "find <name>",
		Short:         "Find series by name, ignoring case",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeriesQuery(rootOpts, cmd, func(ctx context.Context, s *store.Store) ([]store.Series, error) {
				return s.FindSeries(ctx, nil, args[0])
			})
		},
	}
}

func newSeriesYearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "year <year>",
		Short:         "List series that premiered in a year, by name",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return rootOpts.formatter(cmd).Fail(ExitCommandError, ErrCodeInvalidArgument,
					fmt.Sprintf("year %q is not a number", args[0]), nil)
			}
			return runSeriesQuery(rootOpts, cmd, func(ctx context.Context, s *store.Store) ([]store.Series, error) {
				return s.SeriesPremieredIn(ctx, nil, year)
			})
		},
	}
}

// runSeriesQuery opens the store, runs query and prints the result.
func runSeriesQuery(opts *RootOptions, cmd *cobra.Command, query func(context.Context, *store.Store) ([]store.Series, error)) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}
	s, err := opts.openStore()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
	}
	defer closeStore(s)

	found, err := query(context.Background(), s)
	if err != nil {
		return failWith(formatter, err)
	}

	now := time.Now()
	list := SeriesList{Series: make([]SeriesView, len(found))}
	for i := range found {
		list.Series[i] = newSeriesView(&found[i], now, cfg.ExpireInterval())
	}
	formatter.VerboseLog("%d series matched", len(found))

	return formatter.Success(list)
}

// splitList accepts "a|b|c" or "a, b, c".
func splitList(s string) []string {
	sep := "|"
	if !strings.Contains(s, sep) {
		sep = ","
	}
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
