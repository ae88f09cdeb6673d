package compare

import (
	"fmt"

	"github.com/roach88/dbattr/internal/quality"
	"github.com/roach88/dbattr/internal/queryir"
)

// QualityComparator compares a stored quality-name column by rank.
//
// The column holds only the name, so the store cannot order it directly.
// The comparator maps the name to its rank with a CASE built from every
// registry entry; names the registry does not know rank 0.
type QualityComparator struct {
	Column   queryir.Expr
	Registry quality.Registry
}

// RankExpr returns the ranking expression for the column:
//
//	CASE column WHEN 'sd' THEN 1 WHEN 'hd' THEN 2 ... ELSE 0 END
//
// An empty registry yields the constant 0.
func (c QualityComparator) RankExpr() queryir.Expr {
	var all []quality.Quality
	if c.Registry != nil {
		all = c.Registry.All()
	}
	if len(all) == 0 {
		return queryir.Lit(0)
	}

	whens := make([]queryir.When, 0, len(all))
	for _, q := range all {
		whens = append(whens, queryir.When{
			Match:  queryir.Lit(q.Name),
			Result: queryir.Lit(q.Rank),
		})
	}
	return queryir.Case{
		Subject: c.Column,
		Whens:   whens,
		Else:    queryir.Lit(0),
	}
}

// Operate builds "rank(column) op rank(other)".
//
// other may be anything implementing quality.Ranked, or the name of a
// registry entry. Unknown names return *ValueError, other types *TypeError.
func (c QualityComparator) Operate(op queryir.Op, other any) (queryir.Expr, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("unknown comparison operator %q", string(op))
	}

	rank, err := c.Resolve(other)
	if err != nil {
		return nil, err
	}

	return queryir.Compare{
		Op:    op,
		Left:  c.RankExpr(),
		Right: queryir.Lit(rank),
	}, nil
}

// Resolve returns the rank of a comparison operand.
func (c QualityComparator) Resolve(other any) (int, error) {
	switch val := other.(type) {
	case quality.Ranked:
		return val.QualityRank(), nil
	case string:
		if c.Registry != nil {
			if q, ok := c.Registry.Lookup(val); ok {
				return q.Rank, nil
			}
		}
		return 0, &ValueError{Name: val}
	default:
		return 0, &TypeError{Value: other, Want: "quality or quality name"}
	}
}

// RankOf returns the rank of a stored name, 0 when the registry does not
// know it. It is the in-memory counterpart of RankExpr.
func RankOf(r quality.Registry, name string) int {
	if r == nil {
		return 0
	}
	if q, ok := r.Lookup(name); ok {
		return q.Rank
	}
	return 0
}
