package sqlgen

import (
	"strings"

	"github.com/comandalabs/comanda/internal/query"
)

// orderByClause emits ORDER BY for the request, or "" when absent. The
// field is not validated against the SELECT list; an unknown field
// fails at the database.
func orderByClause(ob *query.OrderBy) string {
	if ob == nil {
		return ""
	}
	return "ORDER BY " + ob.Field + " " + strings.ToUpper(ob.Direction)
}
