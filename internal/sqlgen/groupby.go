package sqlgen

import (
	"strings"

	"github.com/comandalabs/comanda/internal/query"
	"github.com/comandalabs/comanda/internal/schema"
)

// groupByClause mirrors the SELECT dimension expressions exactly (both
// go through dimensionExpr) and appends the GROUP BY expressions of any
// triggered display-name columns.
//
// With no dimensions it returns "", which collapses the SELECT
// aggregates to a single scalar summary row.
func groupByClause(subj schema.SubjectSchema, dims []query.Dimension) (string, error) {
	if len(dims) == 0 {
		return "", nil
	}

	var exprs []string
	for _, dim := range dims {
		expr, err := dimensionExpr(subj, dim)
		if err != nil {
			return "", err
		}
		exprs = append(exprs, expr)
	}

	for _, dc := range subj.DisplayColumns(dims) {
		exprs = append(exprs, dc.GroupByExprs()...)
	}

	return "GROUP BY " + strings.Join(exprs, ", "), nil
}
