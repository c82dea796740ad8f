package sqlgen

import (
	"strings"

	"github.com/comandalabs/comanda/internal/query"
)

// CompileCombinations builds the "frequently bought together" query:
// all unordered pairs of products appearing on the same sale, with
// occurrence counts, summed revenue and average ticket.
//
// The product-line items of a sale are self-joined on the shared
// sale_id with ps1.product_id < ps2.product_id, so each unordered pair
// is counted once and a product is never paired with itself. The
// minimum-occurrence threshold applies after aggregation (HAVING); the
// optional time range pre-filters on the sale's temporal column.
//
// This query is deliberately outside the generic compiler: a self-join
// with an inequality does not fit the single-base-table model.
func CompileCombinations(minOccurrences int, tr *query.TimeRange) (*Compiled, error) {
	if minOccurrences < 1 {
		return nil, badRequestf("minOccurrences must be at least 1, got %d", minOccurrences)
	}

	parts := []string{
		"SELECT ps1.product_id AS product_id_a, ps2.product_id AS product_id_b, " +
			"COUNT(*) AS times_together, SUM(s.total_amount) AS total_revenue, " +
			"AVG(s.total_amount) AS average_ticket",
		"FROM product_sales ps1",
		"JOIN product_sales ps2 ON ps1.sale_id = ps2.sale_id AND ps1.product_id < ps2.product_id",
		"JOIN sales s ON ps1.sale_id = s.id",
	}
	var args []any

	if tr != nil {
		parts = append(parts, "WHERE s.created_at >= ? AND s.created_at <= ?")
		args = append(args, tr.From, tr.To)
	}

	parts = append(parts,
		"GROUP BY ps1.product_id, ps2.product_id",
		"HAVING COUNT(*) >= ?",
		"ORDER BY times_together DESC",
	)
	args = append(args, minOccurrences)

	return &Compiled{
		SQL:  strings.Join(parts, "\n"),
		Args: args,
	}, nil
}
