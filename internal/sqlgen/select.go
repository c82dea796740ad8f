package sqlgen

import (
	"fmt"
	"strings"

	"github.com/comandalabs/comanda/internal/query"
	"github.com/comandalabs/comanda/internal/schema"
)

// selectClause builds the SELECT list: measures, then dimensions in
// request order, then any display-name columns the dimensions trigger.
func selectClause(subj schema.SubjectSchema, req query.Request) (string, error) {
	var selects []string

	// Measures. distinct_count is the one aggregation that is not a
	// plain SQL keyword; any other name is upper-cased and passed
	// through, failing at the database if the store has no such
	// function.
	if len(req.Measures) > 0 {
		for _, m := range req.Measures {
			field := subj.Qualify(m.Field)
			var expr string
			if m.Aggregation == query.AggDistinctCount {
				expr = fmt.Sprintf("COUNT(DISTINCT %s)", field)
			} else {
				expr = fmt.Sprintf("%s(%s)", strings.ToUpper(string(m.Aggregation)), field)
			}
			selects = append(selects, expr+" AS "+m.Name)
		}
	} else {
		// A request without measures is a bare row count.
		selects = append(selects, "COUNT(*) AS count")
	}

	for _, dim := range req.Dimensions {
		expr, err := dimensionExpr(subj, dim)
		if err != nil {
			return "", err
		}
		if alias := dimensionAlias(dim); alias != "" {
			expr += " AS " + alias
		}
		selects = append(selects, expr)
	}

	for _, dc := range subj.DisplayColumns(req.Dimensions) {
		selects = append(selects, dc.Expr+" AS "+dc.Alias)
	}

	return "SELECT " + strings.Join(selects, ", "), nil
}
