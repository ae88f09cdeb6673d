package queryir

import (
	"fmt"
	"regexp"

	"github.com/roach88/dbattr/internal/ir"
)

// ValidationResult lists the problems found in a query or expression.
type ValidationResult struct {
	// IsValid is true when Problems is empty.
	IsValid bool

	// Problems describes every malformed node, in traversal order.
	Problems []string
}

// Err folds the problems into a single error, or nil when valid.
func (r ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	return &InvalidError{Problems: r.Problems}
}

// InvalidError is returned by backends asked to render a malformed tree.
type InvalidError struct {
	Problems []string
}

func (e *InvalidError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid query: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid query: %s (and %d more)", e.Problems[0], len(e.Problems)-1)
}

// identPattern matches a bare or table-qualified SQL identifier.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidIdent reports whether name can be emitted verbatim as an identifier.
func ValidIdent(name string) bool {
	return identPattern.MatchString(name)
}

// Validate checks a query for well-formedness.
//
// Rules:
//  1. Table and column names are plain identifiers
//  2. Comparisons use a known operator and have both sides
//  3. Case has at least one arm and an Else
//  4. Params hold scalar values only
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{problems: []string{}}
	v.validateQuery(query)
	return v.result()
}

// ValidateExpr checks a single expression tree.
func ValidateExpr(e Expr) ValidationResult {
	v := &validator{problems: []string{}}
	v.validateExpr(e)
	return v.result()
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) result() ValidationResult {
	return ValidationResult{
		IsValid:  len(v.problems) == 0,
		Problems: v.problems,
	}
}

func (v *validator) validateQuery(q Query) {
	if q == nil {
		v.addProblem("nil query")
		return
	}

	switch query := q.(type) {
	case Select:
		v.validateSelect(query)
	case *Select:
		v.validateSelect(*query)
	default:
		v.addProblem("unknown query type: %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	if !ValidIdent(sel.From) {
		v.addProblem("table name %q is not an identifier", sel.From)
	}
	for _, col := range sel.Columns {
		if !ValidIdent(col) {
			v.addProblem("column name %q is not an identifier", col)
		}
	}

	// Filter is optional
	if sel.Filter != nil {
		v.validateExpr(sel.Filter)
	}

	for _, o := range sel.OrderBy {
		v.validateExpr(o.Expr)
	}
}

func (v *validator) validateExpr(e Expr) {
	if e == nil {
		v.addProblem("nil expression")
		return
	}

	switch expr := e.(type) {
	case Column:
		if !ValidIdent(expr.Name) {
			v.addProblem("column name %q is not an identifier", expr.Name)
		}
	case Param:
		v.validateParam(expr)
	case Lower:
		v.validateExpr(expr.Arg)
	case Year:
		v.validateExpr(expr.Arg)
	case Case:
		v.validateCase(expr)
	case Compare:
		if !expr.Op.Valid() {
			v.addProblem("unknown comparison operator %q", string(expr.Op))
		}
		v.validateExpr(expr.Left)
		v.validateExpr(expr.Right)
	case And:
		for _, term := range expr.Terms {
			v.validateExpr(term)
		}
	default:
		v.addProblem("unknown expression type: %T", e)
	}
}

func (v *validator) validateParam(p Param) {
	switch p.Value.(type) {
	case ir.String, ir.Int, ir.Float, ir.Bool, ir.Time:
	case nil:
		v.addProblem("parameter has no value")
	default:
		v.addProblem("parameter of kind %s cannot be bound", ir.Kind(p.Value))
	}
}

func (v *validator) validateCase(c Case) {
	if c.Subject != nil {
		v.validateExpr(c.Subject)
	}
	if len(c.Whens) == 0 {
		v.addProblem("case expression has no WHEN arms")
	}
	for _, w := range c.Whens {
		v.validateExpr(w.Match)
		v.validateExpr(w.Result)
	}
	if c.Else == nil {
		v.addProblem("case expression has no ELSE")
	} else {
		v.validateExpr(c.Else)
	}
}
