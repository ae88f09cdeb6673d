package queryir

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LowerText is the value a Lower node takes for the text s. Backends must
// lower column text the same way so Go and query-time comparisons agree.
//
// A Caser holds state, so one is built per call.
func LowerText(s string) string {
	return cases.Lower(language.Und).String(s)
}
