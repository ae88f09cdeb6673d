// Package attr provides hybrid attributes: each reads as a Go value on a
// loaded row and as a query expression when building a filter.
//
//	row                     query
//	Quality.Get()           Quality.Comparator().Operate(op, "hd")
//	IgnoreCase.Get()        compare.Operate(op, IgnoreCase.Expr(), "Foo")
//	Year.Get()              Year.Expr()
package attr
