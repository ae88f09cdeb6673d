package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/roach88/dbattr/internal/attr"
	"github.com/roach88/dbattr/internal/column"
	"github.com/roach88/dbattr/internal/quality"
	"github.com/roach88/dbattr/internal/queryir"
	"github.com/roach88/dbattr/internal/session"
)

var releaseColumns = []string{"id", "series_id", "title", "quality", "aired"}

// Release is a row of the releases table.
type Release struct {
	ID         string
	SeriesID   string
	Title      string
	RawQuality sql.NullString
	RawAired   sql.NullTime

	registry quality.Registry
}

// NewRelease returns a release ranked with the store's registry.
func (s *Store) NewRelease(seriesID, title string) *Release {
	return &Release{SeriesID: seriesID, Title: title, registry: s.registry}
}

// Quality is the release quality, stored by name.
func (r *Release) Quality() attr.Quality {
	return attr.Quality{Raw: &r.RawQuality, Column: "quality", Registry: r.registry}
}

// Aired is the air date.
func (r *Release) Aired() column.TextDate {
	return column.TextDate{Raw: &r.RawAired}
}

// qualityComparator is the query-side view of releases.quality.
func (s *Store) qualityComparator() attr.Quality {
	return attr.Quality{Column: "quality", Registry: s.registry}
}

// AddRelease inserts a release. An empty ID is replaced by a fresh UUIDv7.
// The series must exist (foreign key constraint).
func (s *Store) AddRelease(ctx context.Context, sess session.Session, r *Release) error {
	if r.ID == "" {
		r.ID = uuid.Must(uuid.NewV7()).String()
	}
	r.registry = s.registry

	return session.Run(ctx, s, sess, func(ctx context.Context, sess session.Session) error {
		tx, err := txOf(sess)
		if err != nil {
			return err
		}

		query, args, err := sq.Insert("releases").
			Columns(releaseColumns...).
			Values(r.ID, r.SeriesID, r.Title, r.RawQuality, r.RawAired).
			ToSql()
		if err != nil {
			return fmt.Errorf("add release: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("add release: %w", err)
		}
		return nil
	})
}

// ReleasesAtLeast returns the releases of a series whose quality ranks at
// least floor, best first. floor is a quality.Ranked or a registry name;
// unknown names fail with *compare.ValueError.
func (s *Store) ReleasesAtLeast(ctx context.Context, sess session.Session, seriesID string, floor any) ([]Release, error) {
	ranking := s.qualityComparator().Comparator()

	atLeast, err := ranking.Operate(queryir.Ge, floor)
	if err != nil {
		return nil, fmt.Errorf("releases at least: %w", err)
	}

	return s.selectReleases(ctx, sess, queryir.Select{
		Filter: queryir.And{Terms: []queryir.Expr{
			queryir.Compare{Op: queryir.Eq, Left: queryir.Col("series_id"), Right: queryir.Lit(seriesID)},
			atLeast,
		}},
		OrderBy: []queryir.Order{{Expr: ranking.RankExpr(), Desc: true}},
	})
}

// BestRelease returns the highest-ranked release of a series.
// Returns sql.ErrNoRows if the series has no releases.
func (s *Store) BestRelease(ctx context.Context, sess session.Session, seriesID string) (*Release, error) {
	ranking := s.qualityComparator().Comparator()

	found, err := s.selectReleases(ctx, sess, queryir.Select{
		Filter:  queryir.Compare{Op: queryir.Eq, Left: queryir.Col("series_id"), Right: queryir.Lit(seriesID)},
		OrderBy: []queryir.Order{{Expr: ranking.RankExpr(), Desc: true}},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, sql.ErrNoRows
	}
	return &found[0], nil
}

// ListReleases returns the releases of a series in insertion order.
func (s *Store) ListReleases(ctx context.Context, sess session.Session, seriesID string) ([]Release, error) {
	return s.selectReleases(ctx, sess, queryir.Select{
		Filter: queryir.Compare{Op: queryir.Eq, Left: queryir.Col("series_id"), Right: queryir.Lit(seriesID)},
	})
}

// selectReleases fills in the table and columns of q and runs it.
func (s *Store) selectReleases(ctx context.Context, sess session.Session, q queryir.Select) ([]Release, error) {
	q.From = "releases"
	q.Columns = releaseColumns

	query, args, err := s.compiler.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("compile release query: %w", err)
	}

	return session.Do(ctx, s, sess, func(ctx context.Context, sess session.Session) ([]Release, error) {
		tx, err := txOf(sess)
		if err != nil {
			return nil, err
		}

		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("query releases: %w", err)
		}
		defer rows.Close()

		found := []Release{}
		for rows.Next() {
			row := Release{registry: s.registry}
			if err := rows.Scan(&row.ID, &row.SeriesID, &row.Title, &row.RawQuality, &row.RawAired); err != nil {
				return nil, fmt.Errorf("scan release: %w", err)
			}
			found = append(found, row)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate releases: %w", err)
		}
		return found, nil
	})
}
