package sqlgen

import (
	"fmt"
	"strings"

	"github.com/comandalabs/comanda/internal/query"
	"github.com/comandalabs/comanda/internal/schema"
)

// Compiled is a transient compiled query: SQL text with ? placeholders,
// the values bound to them, and the joins that were added. It has no
// identity beyond the request that produced it and is never cached.
//
// Placeholders use ?; the store rebinds them for the active driver.
// Values are never interpolated into the SQL text.
type Compiled struct {
	SQL   string
	Args  []any
	Joins []string
}

// Compiler translates query requests into SQL against the schema
// catalog. It is stateless and safe for concurrent use.
type Compiler struct {
	catalog *schema.Catalog
}

// New creates a Compiler over the given catalog.
func New(catalog *schema.Catalog) *Compiler {
	return &Compiler{catalog: catalog}
}

// Compile synthesizes the full SQL statement for a request, in fixed
// clause order: SELECT, FROM, JOIN, WHERE, GROUP BY, ORDER BY, LIMIT.
//
// Compile is a pure function of the request and the catalog; it
// performs no I/O. The only failures it raises itself are
// *BadRequestError values (see errors.go); anything else the request
// gets wrong surfaces later, at the database.
func (c *Compiler) Compile(req query.Request) (*Compiled, error) {
	subj, err := c.catalog.Subject(req.Subject)
	if err != nil {
		return nil, &BadRequestError{Message: err.Error()}
	}

	selectClause, err := selectClause(subj, req)
	if err != nil {
		return nil, err
	}

	joins := subj.RequiredJoins(req)

	whereClause, whereArgs, err := whereClause(subj, req)
	if err != nil {
		return nil, err
	}

	groupByClause, err := groupByClause(subj, req.Dimensions)
	if err != nil {
		return nil, err
	}

	var parts []string
	var args []any

	parts = append(parts, selectClause)
	parts = append(parts, "FROM "+subj.BaseTable)
	parts = append(parts, joins...)
	if whereClause != "" {
		parts = append(parts, "WHERE "+whereClause)
		args = append(args, whereArgs...)
	}
	if groupByClause != "" {
		parts = append(parts, groupByClause)
	}
	if ob := orderByClause(req.OrderBy); ob != "" {
		parts = append(parts, ob)
	}
	if req.Limit > 0 {
		parts = append(parts, "LIMIT ?")
		args = append(args, req.Limit)
	}

	return &Compiled{
		SQL:   strings.Join(parts, "\n"),
		Args:  args,
		Joins: joins,
	}, nil
}

// dimensionExpr returns the SQL expression for a dimension. SELECT and
// GROUP BY both call it, so their dimension expressions are textually
// identical by construction.
func dimensionExpr(subj schema.SubjectSchema, dim query.Dimension) (string, error) {
	if dim.Grouping != "" {
		if !validBucket(dim.Grouping) {
			return "", badRequestf("unknown time grouping %q", dim.Grouping)
		}
		// The bucket name is embedded in the SQL text, which is why it
		// is allowlisted above rather than bound as a parameter:
		// GROUP BY must repeat the exact SELECT expression.
		return fmt.Sprintf("DATE_TRUNC('%s', %s)", dim.Grouping, subj.Qualify(dim.Field)), nil
	}

	switch dim.Field {
	case "day_of_week":
		return "EXTRACT(DOW FROM " + subj.TimeColumn + ")", nil
	case "hour_of_day":
		return "EXTRACT(HOUR FROM " + subj.TimeColumn + ")", nil
	}

	return subj.Qualify(dim.Field), nil
}

// dimensionAlias returns the output alias for a dimension, or "" when
// the expression is a plain column that needs none.
func dimensionAlias(dim query.Dimension) string {
	if dim.Grouping != "" {
		return dim.Field + "_" + dim.Grouping
	}
	switch dim.Field {
	case "day_of_week", "hour_of_day":
		return dim.Field
	}
	return ""
}

// validBucket reports whether a temporal bucket size is one DATE_TRUNC
// accepts and we allow.
func validBucket(bucket string) bool {
	switch bucket {
	case "hour", "day", "week", "month", "quarter", "year":
		return true
	}
	return false
}
