package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/dbattr/internal/compare"
	"github.com/roach88/dbattr/internal/store"
)

// ReleaseOptions holds flags for the release commands.
type ReleaseOptions struct {
	*RootOptions
	Quality string
	Aired   string
	Min     string
	Best    bool
}

// ReleaseView is the printable form of a release.
type ReleaseView struct {
	ID       string `json:"id" yaml:"id"`
	SeriesID string `json:"series_id" yaml:"series_id"`
	Title    string `json:"title" yaml:"title"`
	Quality  string `json:"quality,omitempty" yaml:"quality,omitempty"`
	Rank     int    `json:"rank" yaml:"rank"`
	Aired    string `json:"aired,omitempty" yaml:"aired,omitempty"`
}

func (v ReleaseView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s", v.ID, v.Title)
	if v.Quality != "" {
		fmt.Fprintf(&b, " [%s/%d]", v.Quality, v.Rank)
	}
	if v.Aired != "" {
		fmt.Fprintf(&b, " aired %s", v.Aired)
	}
	return b.String()
}

// ReleaseList is the payload of release list.
type ReleaseList struct {
	Releases []ReleaseView `json:"releases" yaml:"releases"`
}

func (l ReleaseList) String() string {
	if len(l.Releases) == 0 {
		return "no releases"
	}
	lines := make([]string, len(l.Releases))
	for i, v := range l.Releases {
		lines[i] = v.String()
	}
	return strings.Join(lines, "\n")
}

func newReleaseView(r *store.Release) ReleaseView {
	view := ReleaseView{ID: r.ID, SeriesID: r.SeriesID, Title: r.Title}
	if q, ok := r.Quality().Get(); ok {
		view.Quality, view.Rank = q.Name, q.Rank
	}
	if aired, ok := r.Aired().Get(); ok {
		view.Aired = aired.Format(time.DateOnly)
	}
	return view
}

// NewReleaseCommand creates the release command group.
func NewReleaseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Add and rank releases of a series",
	}

	cmd.AddCommand(newReleaseAddCommand(rootOpts))
	cmd.AddCommand(newReleaseListCommand(rootOpts))

	return cmd
}

func newReleaseAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReleaseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <series-id> <title>",
		Short: "Add a release to a series",
		Long: `Add a release to an existing series.

--quality must name a registry quality; unknown names fail with E004.
--aired takes a YYYY-MM-DD date.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReleaseAdd(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Quality, "quality", "", "release quality (see 'dbattr qualities')")
	cmd.Flags().StringVar(&opts.Aired, "aired", "", "air date (YYYY-MM-DD)")

	return cmd
}

func runReleaseAdd(opts *ReleaseOptions, seriesID, title string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	s, err := opts.openStore()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
	}
	defer closeStore(s)

	r := s.NewRelease(seriesID, title)
	if opts.Quality != "" {
		q, ok := s.Registry().Lookup(opts.Quality)
		if !ok {
			return failWith(formatter, &compare.ValueError{Name: opts.Quality})
		}
		r.Quality().Set(q)
	}
	if opts.Aired != "" {
		if err := r.Aired().SetText(opts.Aired); err != nil {
			return failWith(formatter, err)
		}
	}

	ctx := context.Background()
	if _, err := s.GetSeries(ctx, nil, seriesID); err != nil {
		return failWith(formatter, fmt.Errorf("series %s: %w", seriesID, err))
	}
	if err := s.AddRelease(ctx, nil, r); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
	}
	formatter.VerboseLog("added release %s to series %s", r.ID, seriesID)

	return formatter.Success(newReleaseView(r))
}

func newReleaseListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReleaseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list <series-id>",
		Short: "List the releases of a series",
		Long: `List the releases of a series in insertion order.

--min keeps releases whose quality ranks at least the given quality,
best first. --best prints only the highest-ranked release.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReleaseList(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Min, "min", "", "minimum quality")
	cmd.Flags().BoolVar(&opts.Best, "best", false, "only the best release")

	return cmd
}

func runReleaseList(opts *ReleaseOptions, seriesID string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if opts.Best && opts.Min != "" {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgument,
			"--best and --min are mutually exclusive", nil)
	}

	s, err := opts.openStore()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
	}
	defer closeStore(s)

	ctx := context.Background()

	if opts.Best {
		best, err := s.BestRelease(ctx, nil, seriesID)
		if err != nil {
			return failWith(formatter, err)
		}
		return formatter.Success(newReleaseView(best))
	}

	var found []store.Release
	if opts.Min != "" {
		found, err = s.ReleasesAtLeast(ctx, nil, seriesID, opts.Min)
	} else {
		found, err = s.ListReleases(ctx, nil, seriesID)
	}
	if err != nil {
		return failWith(formatter, err)
	}

	list := ReleaseList{Releases: make([]ReleaseView, len(found))}
	for i := range found {
		list.Releases[i] = newReleaseView(&found[i])
	}
	formatter.VerboseLog("%d releases listed", len(found))

	return formatter.Success(list)
}
