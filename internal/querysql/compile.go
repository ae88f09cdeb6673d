package querysql

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/dbattr/internal/ir"
	"github.com/roach88/dbattr/internal/queryir"
)

// tiebreaker is appended to every ORDER BY so results are deterministic.
// COLLATE BINARY keeps text ordering stable across SQLite versions.
const tiebreaker = "id COLLATE BINARY ASC"

// SQLCompiler compiles queryir trees to parameterized SQLite SQL.
//
// All values are bound as ? parameters, never interpolated.
// All queries end with the id tiebreaker.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a query to parameterized SQL.
// Returns (sql, params, error) tuple.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if err := queryir.Validate(q).Err(); err != nil {
		return "", nil, err
	}

	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		return c.compileSelect(*query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

// CompileExpr renders a single expression, e.g. for use in a hand-written
// statement or a squirrel builder.
func (c *SQLCompiler) CompileExpr(e queryir.Expr) (string, []any, error) {
	if err := queryir.ValidateExpr(e).Err(); err != nil {
		return "", nil, err
	}
	return c.compileExpr(e)
}

// Sqlizer adapts an expression for squirrel builders.
func (c *SQLCompiler) Sqlizer(e queryir.Expr) (sq.Sqlizer, error) {
	sql, args, err := c.CompileExpr(e)
	if err != nil {
		return nil, err
	}
	return sq.Expr(sql, args...), nil
}

func (c *SQLCompiler) compileSelect(q queryir.Select) (string, []any, error) {
	columns := q.Columns
	if len(columns) == 0 {
		columns = []string{"*"}
	}

	builder := sq.Select(columns...).From(q.From)

	if q.Filter != nil {
		filterSQL, filterArgs, err := c.compileExpr(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		builder = builder.Where(sq.Expr(filterSQL, filterArgs...))
	}

	for i, o := range q.OrderBy {
		orderSQL, orderArgs, err := c.compileExpr(o.Expr)
		if err != nil {
			return "", nil, fmt.Errorf("compile order key %d: %w", i, err)
		}
		if o.Desc {
			orderSQL += " DESC"
		} else {
			orderSQL += " ASC"
		}
		builder = builder.OrderByClause(orderSQL, orderArgs...)
	}

	// Always add the tiebreaker
	builder = builder.OrderBy(tiebreaker)

	if q.Limit > 0 {
		builder = builder.Limit(q.Limit)
	}

	return builder.ToSql()
}

func (c *SQLCompiler) compileExpr(e queryir.Expr) (string, []any, error) {
	switch expr := e.(type) {
	case queryir.Column:
		return expr.Name, nil, nil
	case queryir.Param:
		v, err := bindValue(expr.Value)
		if err != nil {
			return "", nil, err
		}
		return "?", []any{v}, nil
	case queryir.Lower:
		return c.wrap(lowerFunc+"(", expr.Arg, ")")
	case queryir.Year:
		return c.wrap("CAST(strftime('%Y', ", expr.Arg, ") AS INTEGER)")
	case queryir.Case:
		return c.compileCase(expr)
	case queryir.Compare:
		return c.compileCompare(expr)
	case queryir.And:
		return c.compileAnd(expr)
	default:
		return "", nil, fmt.Errorf("unsupported expression type: %T", e)
	}
}

func (c *SQLCompiler) wrap(prefix string, arg queryir.Expr, suffix string) (string, []any, error) {
	sql, args, err := c.compileExpr(arg)
	if err != nil {
		return "", nil, err
	}
	return prefix + sql + suffix, args, nil
}

// compileCase renders CASE subject WHEN ? THEN ? ... ELSE ? END.
func (c *SQLCompiler) compileCase(expr queryir.Case) (string, []any, error) {
	var builder sq.CaseBuilder
	if expr.Subject != nil {
		subject, err := c.sqlizer(expr.Subject)
		if err != nil {
			return "", nil, err
		}
		builder = sq.Case(subject)
	} else {
		builder = sq.Case()
	}

	for _, w := range expr.Whens {
		match, err := c.sqlizer(w.Match)
		if err != nil {
			return "", nil, err
		}
		result, err := c.sqlizer(w.Result)
		if err != nil {
			return "", nil, err
		}
		builder = builder.When(match, result)
	}

	elseExpr, err := c.sqlizer(expr.Else)
	if err != nil {
		return "", nil, err
	}
	return builder.Else(elseExpr).ToSql()
}

func (c *SQLCompiler) compileCompare(expr queryir.Compare) (string, []any, error) {
	left, leftArgs, err := c.operand(expr.Left)
	if err != nil {
		return "", nil, err
	}
	right, rightArgs, err := c.operand(expr.Right)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%s %s %s", left, expr.Op, right), append(leftArgs, rightArgs...), nil
}

// operand parenthesizes nested predicates so precedence survives rendering.
func (c *SQLCompiler) operand(e queryir.Expr) (string, []any, error) {
	sql, args, err := c.compileExpr(e)
	if err != nil {
		return "", nil, err
	}
	if _, nested := e.(queryir.Compare); nested {
		sql = "(" + sql + ")"
	}
	return sql, args, nil
}

func (c *SQLCompiler) compileAnd(expr queryir.And) (string, []any, error) {
	if len(expr.Terms) == 0 {
		return "1 = 1", nil, nil // Always true
	}

	conj := make(sq.And, 0, len(expr.Terms))
	for _, term := range expr.Terms {
		s, err := c.sqlizer(term)
		if err != nil {
			return "", nil, err
		}
		conj = append(conj, s)
	}
	return conj.ToSql()
}

func (c *SQLCompiler) sqlizer(e queryir.Expr) (sq.Sqlizer, error) {
	sql, args, err := c.compileExpr(e)
	if err != nil {
		return nil, err
	}
	return sq.Expr(sql, args...), nil
}

// bindValue converts a scalar ir value to a database/sql driver value.
func bindValue(v ir.Value) (any, error) {
	switch val := v.(type) {
	case ir.String:
		return string(val), nil
	case ir.Int:
		return int64(val), nil
	case ir.Float:
		return float64(val), nil
	case ir.Bool:
		return bool(val), nil
	case ir.Time:
		return time.Time(val), nil
	default:
		return nil, fmt.Errorf("cannot bind %T as a parameter", v)
	}
}
