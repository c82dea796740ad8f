package sqlgen

import (
	"fmt"
	"strings"

	"github.com/comandalabs/comanda/internal/query"
	"github.com/comandalabs/comanda/internal/schema"
)

// whereClause lowers the time range and every filter into AND-joined
// conditions. Returns ("", nil, nil) when there is nothing to filter.
func whereClause(subj schema.SubjectSchema, req query.Request) (string, []any, error) {
	var conds []string
	var args []any

	if tr := req.TimeRange; tr != nil {
		conds = append(conds, subj.TimeColumn+" >= ?", subj.TimeColumn+" <= ?")
		args = append(args, tr.From, tr.To)
	}

	for _, f := range req.Filters {
		cond, condArgs, err := filterCondition(subj, f)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, cond)
		args = append(args, condArgs...)
	}

	return strings.Join(conds, " AND "), args, nil
}

// filterCondition lowers a single filter. Temporal pseudo-fields
// (day_of_week, hour_from, hour_to) bypass the operator grammar and
// compare against extractions over the subject's canonical temporal
// column; everything else goes through the per-operator grammar with
// the field qualified by the catalog.
func filterCondition(subj schema.SubjectSchema, f query.Filter) (string, []any, error) {
	switch f.Field {
	case "day_of_week":
		// The DSL counts Monday=1..Sunday=7; the store counts
		// Sunday=0..Saturday=6. Only Sunday needs remapping.
		return "EXTRACT(DOW FROM " + subj.TimeColumn + ") = ?", []any{remapSunday(f.Value)}, nil
	case "hour_from":
		return "EXTRACT(HOUR FROM " + subj.TimeColumn + ") >= ?", []any{f.Value}, nil
	case "hour_to":
		return "EXTRACT(HOUR FROM " + subj.TimeColumn + ") <= ?", []any{f.Value}, nil
	}

	field := subj.Qualify(f.Field)

	switch f.Op {
	case query.OpEq, query.OpNe, query.OpGt, query.OpLt, query.OpGte, query.OpLte:
		return fmt.Sprintf("%s %s ?", field, f.Op), []any{f.Value}, nil

	case query.OpBetween:
		bounds, ok := valueList(f.Value)
		if !ok || len(bounds) != 2 {
			return "", nil, badRequestf("between on %q needs a two-element value", f.Field)
		}
		return field + " BETWEEN ? AND ?", bounds, nil

	case query.OpIn:
		values, ok := valueList(f.Value)
		if !ok {
			// Scalars are coerced to a one-element list.
			values = []any{f.Value}
		}
		if len(values) == 0 {
			return "", nil, badRequestf("in on %q needs at least one value", f.Field)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		return fmt.Sprintf("%s IN (%s)", field, placeholders), values, nil

	case query.OpLike:
		return field + " LIKE ?", []any{fmt.Sprintf("%%%v%%", f.Value)}, nil

	case query.OpContains:
		return field + " @> ARRAY[?]", []any{f.Value}, nil
	}

	return "", nil, badRequestf("unsupported operator: %s", f.Op)
}

// valueList unwraps a decoded list value. JSON decodes arrays as
// []any; YAML does the same.
func valueList(v any) ([]any, bool) {
	list, ok := v.([]any)
	return list, ok
}

// remapSunday converts the DSL's Sunday (7) to the store's native 0.
// Values 1..6 and anything non-numeric pass through unchanged.
func remapSunday(v any) any {
	switch n := v.(type) {
	case int:
		if n == 7 {
			return 0
		}
	case int64:
		if n == 7 {
			return int64(0)
		}
	case float64:
		if n == 7 {
			return float64(0)
		}
	}
	return v
}
