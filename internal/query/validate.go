package query

import "fmt"

// DefaultMaxLimit bounds Request.Limit when the caller does not
// configure one. Matches the upstream API contract (1..10000).
const DefaultMaxLimit = 10000

// ValidationError describes one rejected request field.
type ValidationError struct {
	Field   string // request path, e.g. "measures[1].aggregation"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a request against the DSL grammar: known subject,
// known aggregations and operators, unique measure aliases, asc/desc
// direction, and limit within [1, maxLimit]. Pass maxLimit <= 0 to use
// DefaultMaxLimit.
//
// Validate covers grammar only. Field names are deliberately open:
// fields the catalog does not recognize fall back to their literal
// spelling at compile time and fail, if at all, at the database.
//
// Validate is a pure function; it returns all errors found.
func Validate(req Request, maxLimit int) []error {
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	var errs []error

	if !validSubject(req.Subject) {
		errs = append(errs, &ValidationError{
			Field:   "subject",
			Message: fmt.Sprintf("unknown subject %q", req.Subject),
		})
	}

	seen := make(map[string]bool, len(req.Measures))
	for i, m := range req.Measures {
		if m.Name == "" {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("measures[%d].name", i),
				Message: "alias is required",
			})
		} else if seen[m.Name] {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("measures[%d].name", i),
				Message: fmt.Sprintf("duplicate alias %q", m.Name),
			})
		}
		seen[m.Name] = true

		if !validAggregation(m.Aggregation) {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("measures[%d].aggregation", i),
				Message: fmt.Sprintf("unknown aggregation %q", m.Aggregation),
			})
		}
		if m.Field == "" {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("measures[%d].field", i),
				Message: "field is required",
			})
		}
	}

	for i, d := range req.Dimensions {
		if d.Field == "" {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("dimensions[%d].field", i),
				Message: "field is required",
			})
		}
	}

	for i, f := range req.Filters {
		if f.Field == "" {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("filters[%d].field", i),
				Message: "field is required",
			})
		}
		if !validOperator(f.Op) {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("filters[%d].op", i),
				Message: fmt.Sprintf("unknown operator %q", f.Op),
			})
		}
	}

	if req.OrderBy != nil {
		if req.OrderBy.Direction != "asc" && req.OrderBy.Direction != "desc" {
			errs = append(errs, &ValidationError{
				Field:   "orderBy.direction",
				Message: fmt.Sprintf("direction must be asc or desc, got %q", req.OrderBy.Direction),
			})
		}
	}

	if req.Limit < 0 || req.Limit > maxLimit {
		errs = append(errs, &ValidationError{
			Field:   "limit",
			Message: fmt.Sprintf("limit must be within [1, %d], got %d", maxLimit, req.Limit),
		})
	}

	return errs
}

func validSubject(s Subject) bool {
	for _, known := range Subjects {
		if s == known {
			return true
		}
	}
	return false
}

func validAggregation(a Aggregation) bool {
	switch a {
	case AggSum, AggAvg, AggCount, AggMin, AggMax, AggDistinctCount:
		return true
	}
	return false
}

func validOperator(op Operator) bool {
	switch op {
	case OpEq, OpNe, OpGt, OpLt, OpGte, OpLte, OpBetween, OpIn, OpLike, OpContains:
		return true
	}
	return false
}
