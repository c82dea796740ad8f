// Package engine executes compiled analytics queries.
//
// It owns the two entry points of the system, Execute for DSL requests
// and ProductCombinations for the co-purchase aggregation, plus the
// normalization layer that turns driver-specific result values
// into transport-safe numbers and strings. All failures surface as a
// single classified *QueryError.
package engine
