package compare

import (
	"fmt"
	"strings"

	"github.com/roach88/dbattr/internal/queryir"
)

// Word is text that compares case-insensitively.
//
// A Word is either a Literal, whose lowered form is already known, or a
// ColumnWord, whose lowered form only exists inside a query.
type Word interface {
	// Expr returns the lowered form as a query expression.
	Expr() queryir.Expr

	word() // Marker method - unexported to seal the interface
}

// Literal is concrete text together with its lower-cased form.
type Literal struct {
	Text  string
	Lower string
}

func (Literal) word() {}

// Expr binds the lowered text as a parameter.
func (l Literal) Expr() queryir.Expr {
	return queryir.Lit(l.Lower)
}

// String returns the original text.
func (l Literal) String() string {
	return l.Text
}

// Equal reports whether s matches l ignoring case.
func (l Literal) Equal(s string) bool {
	return l.Lower == lower(s)
}

// Compare orders l and other by their lowered forms.
func (l Literal) Compare(other Literal) int {
	return strings.Compare(l.Lower, other.Lower)
}

// ColumnWord is a stored text column compared through its lowered form.
type ColumnWord struct {
	Column queryir.Expr
}

func (ColumnWord) word() {}

// Expr returns Lower(column).
func (c ColumnWord) Expr() queryir.Expr {
	return queryir.Lower{Arg: c.Column}
}

// Fold wraps s for case-insensitive comparison.
func Fold(s string) Literal {
	return Literal{Text: s, Lower: lower(s)}
}

// FoldColumn wraps the named column for case-insensitive comparison.
func FoldColumn(name string) ColumnWord {
	return ColumnWord{Column: queryir.Col(name)}
}

// ToWord coerces an operand: a Word is returned as-is, a string is folded and
// a queryir.Column becomes a ColumnWord.
func ToWord(v any) (Word, error) {
	switch val := v.(type) {
	case Literal:
		return val, nil
	case ColumnWord:
		return val, nil
	case string:
		return Fold(val), nil
	case fmt.Stringer:
		return Fold(val.String()), nil
	case queryir.Column:
		return ColumnWord{Column: val}, nil
	default:
		return nil, &TypeError{Value: v, Want: "text, Word or column"}
	}
}

// Outcome is the result of a case-insensitive comparison: a Bool when both
// sides are concrete, otherwise a Predicate for the store to evaluate.
type Outcome interface {
	outcome() // Marker method - unexported to seal the interface
}

// Bool is a comparison decided in memory.
type Bool bool

func (Bool) outcome() {}

// Predicate is a comparison deferred to the store.
type Predicate struct {
	Expr queryir.Expr
}

func (Predicate) outcome() {}

// Operate compares left against other with op. other is coerced with ToWord.
func Operate(op queryir.Op, left Word, other any) (Outcome, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("unknown comparison operator %q", string(op))
	}
	if left == nil {
		return nil, &TypeError{Value: left, Want: "Word"}
	}

	right, err := ToWord(other)
	if err != nil {
		return nil, err
	}

	l, lok := left.(Literal)
	r, rok := right.(Literal)
	if lok && rok {
		return Bool(op.Holds(l.Compare(r))), nil
	}

	return Predicate{Expr: queryir.Compare{
		Op:    op,
		Left:  left.Expr(),
		Right: right.Expr(),
	}}, nil
}

func lower(s string) string {
	return queryir.LowerText(s)
}
