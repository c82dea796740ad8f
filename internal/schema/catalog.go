package schema

import (
	"fmt"

	"github.com/comandalabs/comanda/internal/query"
)

// JoinRule describes one LEFT JOIN a subject may need. Joins are purely
// additive and safe to add speculatively: a missing related row never
// drops the base row.
//
// A rule fires when Always is set, when any dimension field in
// DimensionFields is requested, or when any filter field in
// FilterFields is requested.
type JoinRule struct {
	Clause          string
	Always          bool
	DimensionFields []string
	FilterFields    []string
}

// DisplayColumn adds a human-readable label (e.g. a product name) to
// the result whenever the triggering id-valued dimension is requested.
// GroupBy lists the expressions the GROUP BY clause must carry for the
// label; when empty, Expr itself is used.
type DisplayColumn struct {
	Dimension string // triggering dimension field, e.g. "store_id"
	Expr      string // select expression, e.g. "st.name"
	Alias     string // output alias, e.g. "store_name"
	GroupBy   []string
}

// SubjectSchema is the complete compile-time knowledge about one
// subject: its base table, its canonical temporal column, which columns
// must be table-qualified after joins, which joins each dimension or
// filter pulls in, and which display-name columns ride along.
type SubjectSchema struct {
	Subject    query.Subject
	BaseTable  string
	TimeColumn string // qualified canonical temporal column

	// Qualified maps a requested field to its disambiguated SQL
	// expression. Fields not present pass through verbatim.
	Qualified map[string]string

	Joins   []JoinRule
	Display []DisplayColumn
}

// Qualify returns the disambiguated expression for a field, falling
// back to the literal field name when the subject has no rule for it.
// Every synthesizer that touches a column goes through this single
// lookup, so SELECT, WHERE and GROUP BY cannot disagree.
func (s SubjectSchema) Qualify(field string) string {
	if q, ok := s.Qualified[field]; ok {
		return q
	}
	return field
}

// RequiredJoins returns the ordered, deduplicated LEFT JOIN clauses
// needed to resolve the request's dimensions, filters and time range.
// A time range counts as a filter on created_at, since it compares
// against the subject's temporal column.
func (s SubjectSchema) RequiredJoins(req query.Request) []string {
	dimSet := make(map[string]bool, len(req.Dimensions))
	for _, d := range req.Dimensions {
		dimSet[d.Field] = true
	}
	filterSet := make(map[string]bool, len(req.Filters))
	for _, f := range req.Filters {
		filterSet[f.Field] = true
	}
	if req.TimeRange != nil {
		filterSet["created_at"] = true
	}

	var joins []string
	seen := make(map[string]bool)
	for _, rule := range s.Joins {
		if !rule.fires(dimSet, filterSet) || seen[rule.Clause] {
			continue
		}
		seen[rule.Clause] = true
		joins = append(joins, rule.Clause)
	}
	return joins
}

func (r JoinRule) fires(dimSet, filterSet map[string]bool) bool {
	if r.Always {
		return true
	}
	for _, f := range r.DimensionFields {
		if dimSet[f] {
			return true
		}
	}
	for _, f := range r.FilterFields {
		if filterSet[f] {
			return true
		}
	}
	return false
}

// DisplayColumns returns the display-name rules triggered by the
// requested dimensions, in catalog order. Triggering is keyed off field
// presence, independent of dimension order.
func (s SubjectSchema) DisplayColumns(dims []query.Dimension) []DisplayColumn {
	dimSet := make(map[string]bool, len(dims))
	for _, d := range dims {
		dimSet[d.Field] = true
	}

	var cols []DisplayColumn
	for _, dc := range s.Display {
		if dimSet[dc.Dimension] {
			cols = append(cols, dc)
		}
	}
	return cols
}

// GroupByExprs returns the GROUP BY expressions for a display column.
func (dc DisplayColumn) GroupByExprs() []string {
	if len(dc.GroupBy) > 0 {
		return dc.GroupBy
	}
	return []string{dc.Expr}
}

// Catalog holds the per-subject schemas. It is immutable after
// construction and safe for concurrent use.
type Catalog struct {
	subjects map[query.Subject]SubjectSchema
}

// New builds a catalog from explicit subject schemas. Use Default for
// the restaurant schema.
func New(schemas ...SubjectSchema) *Catalog {
	c := &Catalog{subjects: make(map[query.Subject]SubjectSchema, len(schemas))}
	for _, s := range schemas {
		c.subjects[s.Subject] = s
	}
	return c
}

// Subject returns the schema for a subject. Unknown subjects are an
// explicit error, never a fallback table.
func (c *Catalog) Subject(s query.Subject) (SubjectSchema, error) {
	schema, ok := c.subjects[s]
	if !ok {
		return SubjectSchema{}, fmt.Errorf("unknown subject %q", s)
	}
	return schema, nil
}

// BaseTable returns the base table backing a subject.
func (c *Catalog) BaseTable(s query.Subject) (string, error) {
	schema, err := c.Subject(s)
	if err != nil {
		return "", err
	}
	return schema.BaseTable, nil
}
