// Package queryir provides a small, backend-neutral expression tree used by
// attributes that must work both on loaded rows and inside queries.
//
// ARCHITECTURE:
//
// An attribute accessed on a row returns a Go value. The same attribute
// accessed at the class level returns an Expr, which the SQL backend
// renders with bound parameters:
//
//	[attribute] → [queryir.Expr] → [querysql] → SQL + args
//
// NODES:
//
//   - Column, Param        leaves
//   - Lower, Year          scalar functions
//   - Case                 lookup table mapping a subject to results
//   - Compare, And         predicates
//   - Select               single-table read with filter and ordering
//
// SEALED INTERFACES:
//
// Query and Expr are sealed interfaces using the marker method pattern.
// Only types in this package can implement them, so backends can switch
// exhaustively:
//
//	switch e := expr.(type) {
//	case queryir.Column:
//	case queryir.Case:
//	...
//	}
//
// Values are never interpolated: every literal is a Param holding a scalar
// ir.Value.
package queryir
