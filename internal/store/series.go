package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/roach88/dbattr/internal/attr"
	"github.com/roach88/dbattr/internal/column"
	"github.com/roach88/dbattr/internal/compare"
	"github.com/roach88/dbattr/internal/queryir"
	"github.com/roach88/dbattr/internal/session"
)

// DefaultUpdateInterval is how long series metadata stays fresh.
const DefaultUpdateInterval = 7 * 24 * time.Hour

var seriesColumns = []string{"id", "name", "genres", "premiered", "schedule", "status", "last_update"}

// Series is a row of the series table. Raw fields hold stored values;
// use the attribute methods to read and write them.
type Series struct {
	ID           string
	RawName      sql.NullString
	RawGenres    sql.NullString
	RawPremiered sql.NullTime
	RawSchedule  []byte
	Status       sql.NullString
	LastUpdate   sql.NullTime
}

// Name compares case-insensitively.
func (s *Series) Name() attr.IgnoreCase {
	return attr.IgnoreCase{Raw: &s.RawName, Column: "name"}
}

// Genres is the pipe-delimited genre list.
func (s *Series) Genres() column.DelimitedList {
	return column.PipeList(&s.RawGenres)
}

// Premiered is the premiere date.
func (s *Series) Premiered() column.TextDate {
	return column.TextDate{Raw: &s.RawPremiered}
}

// PremieredYear is the premiere year.
func (s *Series) PremieredYear() attr.Year {
	return attr.Year{Raw: &s.RawPremiered, Column: "premiered"}
}

// Schedule is arbitrary sanitized metadata, e.g. {"days": [...], "time": "21:00"}.
func (s *Series) Schedule() column.SanitizedBlob {
	return column.SanitizedBlob{Raw: &s.RawSchedule}
}

// Expired reports whether the series was never updated or was last updated
// more than interval before now.
func (s *Series) Expired(now time.Time, interval time.Duration) bool {
	if !s.LastUpdate.Valid {
		return true
	}
	return now.Sub(s.LastUpdate.Time) > interval
}

// AddSeries inserts a series. An empty ID is replaced by a fresh UUIDv7.
func (s *Store) AddSeries(ctx context.Context, sess session.Session, series *Series) error {
	if series.ID == "" {
		series.ID = uuid.Must(uuid.NewV7()).String()
	}

	return session.Run(ctx, s, sess, func(ctx context.Context, sess session.Session) error {
		tx, err := txOf(sess)
		if err != nil {
			return err
		}

		query, args, err := sq.Insert("series").
			Columns(seriesColumns...).
			Values(
				series.ID,
				series.RawName,
				series.RawGenres,
				series.RawPremiered,
				series.RawSchedule,
				series.Status,
				series.LastUpdate,
			).
			ToSql()
		if err != nil {
			return fmt.Errorf("add series: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("add series: %w", err)
		}
		return nil
	})
}

// TouchSeries records a metadata refresh at t.
func (s *Store) TouchSeries(ctx context.Context, sess session.Session, id string, t time.Time) error {
	return session.Run(ctx, s, sess, func(ctx context.Context, sess session.Session) error {
		tx, err := txOf(sess)
		if err != nil {
			return err
		}

		query, args, err := sq.Update("series").
			Set("last_update", t).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("touch series: %w", err)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("touch series: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
}

// GetSeries retrieves a single series by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) GetSeries(ctx context.Context, sess session.Session, id string) (*Series, error) {
	found, err := s.selectSeries(ctx, sess, queryir.Compare{
		Op:    queryir.Eq,
		Left:  queryir.Col("id"),
		Right: queryir.Lit(id),
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, sql.ErrNoRows
	}
	return &found[0], nil
}

// FindSeries returns every series whose name matches ignoring case.
func (s *Store) FindSeries(ctx context.Context, sess session.Session, name string) ([]Series, error) {
	var probe Series
	out, err := compare.Operate(queryir.Eq, probe.Name().Expr(), name)
	if err != nil {
		return nil, fmt.Errorf("find series: %w", err)
	}

	pred, ok := out.(compare.Predicate)
	if !ok {
		return nil, fmt.Errorf("find series: comparison was not deferred")
	}
	return s.selectSeries(ctx, sess, pred.Expr, nil)
}

// SeriesPremieredIn returns the series that premiered in year, by name.
func (s *Store) SeriesPremieredIn(ctx context.Context, sess session.Session, year int) ([]Series, error) {
	var probe Series
	filter := queryir.Compare{
		Op:    queryir.Eq,
		Left:  probe.PremieredYear().Expr(),
		Right: queryir.Lit(year),
	}
	order := []queryir.Order{{Expr: probe.Name().Expr().Expr()}}
	return s.selectSeries(ctx, sess, filter, order)
}

func (s *Store) selectSeries(ctx context.Context, sess session.Session, filter queryir.Expr, order []queryir.Order) ([]Series, error) {
	query, args, err := s.compiler.Compile(queryir.Select{
		From:    "series",
		Columns: seriesColumns,
		Filter:  filter,
		OrderBy: order,
	})
	if err != nil {
		return nil, fmt.Errorf("compile series query: %w", err)
	}

	return session.Do(ctx, s, sess, func(ctx context.Context, sess session.Session) ([]Series, error) {
		tx, err := txOf(sess)
		if err != nil {
			return nil, err
		}

		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("query series: %w", err)
		}
		defer rows.Close()

		found := []Series{}
		for rows.Next() {
			var row Series
			if err := rows.Scan(
				&row.ID,
				&row.RawName,
				&row.RawGenres,
				&row.RawPremiered,
				&row.RawSchedule,
				&row.Status,
				&row.LastUpdate,
			); err != nil {
				return nil, fmt.Errorf("scan series: %w", err)
			}
			found = append(found, row)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate series: %w", err)
		}
		return found, nil
	})
}
