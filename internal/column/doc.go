// Package column provides virtual attributes: typed views over raw stored
// columns that convert on every read and write.
//
// A virtual attribute holds a pointer to the raw field of a row struct and
// has no storage of its own:
//
//	DelimitedList  sql.NullString  "a|b|c"        <-> []string
//	TextDate       sql.NullTime    "2020-01-15"    --> time.Time
//	SanitizedBlob  []byte          tagged JSON    <-> ir.Value
package column
