package attr

import (
	"database/sql"

	"github.com/roach88/dbattr/internal/compare"
	"github.com/roach88/dbattr/internal/quality"
	"github.com/roach88/dbattr/internal/queryir"
)

// Quality exposes a stored quality name as a ranked quality.
type Quality struct {
	Raw      *sql.NullString
	Column   string
	Registry quality.Registry
}

// Get reconstructs the quality from the stored name. A name the registry
// does not know is returned with rank 0. ok is false when the column is
// NULL.
func (a Quality) Get() (q quality.Quality, ok bool) {
	if !a.Raw.Valid {
		return quality.Quality{}, false
	}
	name := a.Raw.String
	if a.Registry != nil {
		if known, found := a.Registry.Lookup(name); found {
			return known, true
		}
	}
	return quality.Quality{Name: name, Rank: 0}, true
}

// Set stores the quality's name.
func (a Quality) Set(q quality.Quality) {
	a.SetName(q.Name)
}

// SetName stores name verbatim.
func (a Quality) SetName(name string) {
	*a.Raw = sql.NullString{String: name, Valid: true}
}

// Clear stores NULL.
func (a Quality) Clear() {
	*a.Raw = sql.NullString{}
}

// Comparator returns the query-side view of the column.
func (a Quality) Comparator() compare.QualityComparator {
	return compare.QualityComparator{
		Column:   queryir.Col(a.Column),
		Registry: a.Registry,
	}
}

// IgnoreCase exposes a text column that compares case-insensitively.
type IgnoreCase struct {
	Raw    *sql.NullString
	Column string
}

// Get wraps the stored text. NULL reads as empty text.
func (a IgnoreCase) Get() compare.Literal {
	return compare.Fold(a.Raw.String)
}

// Set stores s unchanged; only comparisons ignore case.
func (a IgnoreCase) Set(s string) {
	*a.Raw = sql.NullString{String: s, Valid: true}
}

// Expr returns the query-side view of the column.
func (a IgnoreCase) Expr() compare.ColumnWord {
	return compare.FoldColumn(a.Column)
}

// Year exposes the calendar year of a stored date.
type Year struct {
	Raw    *sql.NullTime
	Column string
}

// Get returns the UTC year, or false when the date is NULL. Expr extracts
// the same year in SQL.
func (a Year) Get() (int, bool) {
	if !a.Raw.Valid {
		return 0, false
	}
	return a.Raw.Time.UTC().Year(), true
}

// Expr returns the year as an integer expression.
func (a Year) Expr() queryir.Expr {
	return queryir.Year{Arg: queryir.Col(a.Column)}
}
