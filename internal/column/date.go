package column

import (
	"database/sql"
	"time"
)

// DateLayout is the only accepted text form for TextDate.
const DateLayout = "2006-01-02"

// TextDate presents a timestamp column that also accepts YYYY-MM-DD text on
// assignment. Parsed dates are naive: midnight, no zone handling.
type TextDate struct {
	Raw *sql.NullTime
}

// Get returns the stored timestamp and whether the column is non-NULL.
func (d TextDate) Get() (time.Time, bool) {
	if d.Raw == nil || !d.Raw.Valid {
		return time.Time{}, false
	}
	return d.Raw.Time, true
}

// SetText parses s as YYYY-MM-DD and stores the result.
// Returns *FormatError and leaves the column untouched if s does not match.
func (d TextDate) SetText(s string) error {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return &FormatError{Input: s, Layout: DateLayout, Err: err}
	}
	d.SetTime(t)
	return nil
}

// SetTime stores t in UTC, the zone SQLite date functions read it in.
func (d TextDate) SetTime(t time.Time) {
	*d.Raw = sql.NullTime{Time: t.UTC(), Valid: true}
}

// Clear stores NULL.
func (d TextDate) Clear() {
	*d.Raw = sql.NullTime{}
}
