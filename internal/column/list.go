package column

import (
	"database/sql"
	"strings"
)

// PipeSeparator is the separator used by PipeList.
const PipeSeparator = "|"

// DelimitedList presents a text column holding separator-joined values as a
// list of strings.
//
// Elements must not contain the separator; this is not checked.
type DelimitedList struct {
	Raw *sql.NullString
	Sep string
}

// PipeList returns a DelimitedList over raw using "|" as separator.
func PipeList(raw *sql.NullString) DelimitedList {
	return DelimitedList{Raw: raw, Sep: PipeSeparator}
}

// Get returns the stored list.
// Returns nil when the column is NULL or holds only separators.
func (l DelimitedList) Get() []string {
	if l.Raw == nil || !l.Raw.Valid {
		return nil
	}
	trimmed := strings.Trim(l.Raw.String, l.Sep)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, l.Sep)
}

// Set stores the parts joined by the separator.
// No separator is added before the first or after the last element.
func (l DelimitedList) Set(parts []string) {
	l.SetRaw(strings.Join(parts, l.Sep))
}

// SetRaw stores already-joined text verbatim.
func (l DelimitedList) SetRaw(raw string) {
	*l.Raw = sql.NullString{String: raw, Valid: true}
}

// Clear stores NULL.
func (l DelimitedList) Clear() {
	*l.Raw = sql.NullString{}
}
