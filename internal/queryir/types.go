package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/dbattr/internal/ir"
)

// Query is a sealed interface for query nodes.
type Query interface {
	queryNode() // Marker method - unexported to seal the interface
}

// Expr is a sealed interface for scalar expression nodes.
//
// An Expr is a description, not a value: attributes that are accessed at
// the class level return an Expr which a backend renders into its own
// dialect, while the same attribute on a row returns a plain Go value.
type Expr interface {
	exprNode() // Marker method - unexported to seal the interface
}

// Select reads rows from a single table.
type Select struct {
	// From is the table name.
	From string

	// Columns lists the projected columns. Empty means every column.
	Columns []string

	// Filter is optional. Nil means no filtering.
	Filter Expr

	// OrderBy lists sort keys applied before the id tiebreaker.
	OrderBy []Order

	// Limit caps the number of rows. Zero means no limit.
	Limit uint64
}

func (Select) queryNode() {}

// Order is a single ORDER BY key.
type Order struct {
	Expr Expr
	Desc bool
}

// Column references a stored column by name, optionally table-qualified.
type Column struct {
	Name string
}

func (Column) exprNode() {}

// Col is shorthand for Column{Name: name}.
func Col(name string) Column {
	return Column{Name: name}
}

// Param is a bound parameter. Values are never interpolated into SQL text.
// Only scalar ir values (String, Int, Float, Bool, Time) can be bound.
type Param struct {
	Value ir.Value
}

func (Param) exprNode() {}

// Lit wraps a Go scalar into a Param.
// Supported: string, int, int64, float64, bool.
func Lit(v any) Param {
	switch val := v.(type) {
	case string:
		return Param{Value: ir.String(val)}
	case int:
		return Param{Value: ir.Int(val)}
	case int64:
		return Param{Value: ir.Int(val)}
	case float64:
		return Param{Value: ir.Float(val)}
	case bool:
		return Param{Value: ir.Bool(val)}
	case ir.Value:
		return Param{Value: val}
	default:
		panic(fmt.Sprintf("queryir.Lit: unsupported literal %T", v))
	}
}

// Lower is the Unicode lower-cased form of its argument, as LowerText
// computes it.
type Lower struct {
	Arg Expr
}

func (Lower) exprNode() {}

// Year extracts the calendar year of a date or timestamp as an integer.
type Year struct {
	Arg Expr
}

func (Year) exprNode() {}

// When is a single arm of a Case.
type When struct {
	Match  Expr
	Result Expr
}

// Case maps Subject through a lookup table:
//
//	CASE subject WHEN match THEN result ... ELSE else END
//
// A Case must have at least one arm. Else is required so the result is
// never NULL.
type Case struct {
	Subject Expr
	Whens   []When
	Else    Expr
}

func (Case) exprNode() {}

// Compare is a binary comparison producing a boolean.
type Compare struct {
	Op    Op
	Left  Expr
	Right Expr
}

func (Compare) exprNode() {}

// And is the conjunction of its terms. An empty And is always true.
type And struct {
	Terms []Expr
}

func (And) exprNode() {}

// Op is a comparison operator.
type Op string

// Comparison operators.
const (
	Eq Op = "="
	Ne Op = "<>"
	Lt Op = "<"
	Le Op = "<="
	Gt Op = ">"
	Ge Op = ">="
)

// Ops lists every comparison operator in a stable order.
var Ops = []Op{Eq, Ne, Lt, Le, Gt, Ge}

// Valid reports whether op is a known operator.
func (op Op) Valid() bool {
	switch op {
	case Eq, Ne, Lt, Le, Gt, Ge:
		return true
	}
	return false
}

// Holds reports whether the operator is satisfied by a three-way comparison
// result c (negative, zero or positive, as returned by cmp.Compare).
func (op Op) Holds(c int) bool {
	switch op {
	case Eq:
		return c == 0
	case Ne:
		return c != 0
	case Lt:
		return c < 0
	case Le:
		return c <= 0
	case Gt:
		return c > 0
	case Ge:
		return c >= 0
	}
	return false
}

// String returns the SQL spelling of the operator.
func (op Op) String() string {
	return string(op)
}

// opNames maps accepted spellings to operators.
var opNames = map[string]Op{
	"=": Eq, "==": Eq, "eq": Eq,
	"<>": Ne, "!=": Ne, "ne": Ne,
	"<": Lt, "lt": Lt,
	"<=": Le, "le": Le,
	">": Gt, "gt": Gt,
	">=": Ge, "ge": Ge,
}

// ParseOp accepts symbolic ("<=", "!=") and mnemonic ("le", "ne") spellings.
func ParseOp(s string) (Op, error) {
	if op, ok := opNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return op, nil
	}
	return "", fmt.Errorf("unknown comparison operator %q", s)
}
