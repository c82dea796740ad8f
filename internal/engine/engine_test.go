package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comandalabs/comanda/internal/query"
	"github.com/comandalabs/comanda/internal/schema"
	"github.com/comandalabs/comanda/internal/store"
	"github.com/comandalabs/comanda/internal/testutil"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	s := testutil.OpenTestStore(t)
	seedSales(t, s)
	return New(s, schema.Default(), WithQueryIDGenerator(FixedGenerator{ID: "test-query-id"}))
}

// seedSales loads a small but complete January: two channels, two
// stores, four completed sales and two cancellations.
func seedSales(t *testing.T, s *store.Store) {
	t.Helper()
	stmts := []string{
		`INSERT INTO stores (id, name) VALUES (1, 'Centro'), (2, 'Savassi')`,
		`INSERT INTO channels (id, description) VALUES (1, 'iFood'), (2, 'Balcao')`,
		`INSERT INTO sales (id, store_id, channel_id, sale_status_desc, total_amount, created_at) VALUES
			(1, 1, 1, 'COMPLETED', 100.0, '2025-01-05'),
			(2, 1, 1, 'COMPLETED', 50.5,  '2025-01-10'),
			(3, 2, 2, 'COMPLETED', 80.0,  '2025-01-15'),
			(4, 2, 2, 'COMPLETED', 20.0,  '2025-02-01'),
			(5, 1, 1, 'CANCELLED', 30.0,  '2025-01-20'),
			(6, 2, 2, 'CANCELLED', 45.0,  '2025-01-25')`,
	}
	testutil.Seed(t, s, stmts...)
}

func TestExecute_ScalarSummary(t *testing.T) {
	eng := newTestEngine(t)

	result, err := eng.Execute(context.Background(), query.Request{
		Subject:  query.SubjectSales,
		Measures: []query.Measure{{Name: "total_revenue", Aggregation: query.AggSum, Field: "total_amount"}},
	})
	require.NoError(t, err)

	require.Len(t, result.Data, 1)
	assert.InDelta(t, 325.5, result.Data[0]["total_revenue"], 0.001)

	assert.Equal(t, "test-query-id", result.Metadata.QueryID)
	assert.Equal(t, 1, result.Metadata.TotalRows)
	assert.False(t, result.Metadata.Cached)
	assert.Contains(t, result.Metadata.SQL, "SUM(sales.total_amount)")
}

func TestExecute_CancelledByChannelWithDisplayName(t *testing.T) {
	eng := newTestEngine(t)

	result, err := eng.Execute(context.Background(), query.Request{
		Subject:    query.SubjectSales,
		Dimensions: []query.Dimension{{Field: "channel_id"}},
		Filters:    []query.Filter{{Field: "sale_status_desc", Op: query.OpEq, Value: "CANCELLED"}},
	})
	require.NoError(t, err)
	require.Len(t, result.Data, 2)

	counts := make(map[string]float64, 2)
	for _, row := range result.Data {
		name, ok := row["channel_name"].(string)
		require.True(t, ok, "channel_name should normalize to a string, got %T", row["channel_name"])
		counts[name] = row["count"].(float64)
	}
	assert.Equal(t, map[string]float64{"iFood": 1, "Balcao": 1}, counts)
}

func TestExecute_TimeRangeBoundsAreInclusive(t *testing.T) {
	eng := newTestEngine(t)

	result, err := eng.Execute(context.Background(), query.Request{
		Subject:   query.SubjectSales,
		TimeRange: &query.TimeRange{From: "2025-01-05", To: "2025-01-20"},
	})
	require.NoError(t, err)

	// Sales 1, 2, 3 and 5 fall inside; the boundary days count.
	require.Len(t, result.Data, 1)
	assert.Equal(t, float64(4), result.Data[0]["count"])
}

func TestExecute_FiltersCombineConjunctively(t *testing.T) {
	eng := newTestEngine(t)

	result, err := eng.Execute(context.Background(), query.Request{
		Subject: query.SubjectSales,
		Filters: []query.Filter{
			{Field: "sale_status_desc", Op: query.OpEq, Value: "COMPLETED"},
			{Field: "total_amount", Op: query.OpGte, Value: 80},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Data, 1)
	assert.Equal(t, float64(2), result.Data[0]["count"])
}

func TestExecute_LimitCapsRows(t *testing.T) {
	eng := newTestEngine(t)

	result, err := eng.Execute(context.Background(), query.Request{
		Subject:    query.SubjectSales,
		Dimensions: []query.Dimension{{Field: "store_id"}},
		Limit:      1,
	})
	require.NoError(t, err)

	assert.Len(t, result.Data, 1)
}

func TestExecute_BadRequestIsClassified(t *testing.T) {
	eng := newTestEngine(t)

	testCases := []struct {
		name string
		req  query.Request
	}{
		{
			name: "unknown subject",
			req:  query.Request{Subject: "refunds"},
		},
		{
			name: "unsupported operator",
			req: query.Request{
				Subject: query.SubjectSales,
				Filters: []query.Filter{{Field: "total_amount", Op: "~=", Value: 1}},
			},
		},
		{
			name: "unknown time bucket",
			req: query.Request{
				Subject:    query.SubjectSales,
				Dimensions: []query.Dimension{{Field: "created_at", Grouping: "fortnight"}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := eng.Execute(context.Background(), tc.req)

			var queryErr *QueryError
			require.ErrorAs(t, err, &queryErr)
			assert.Equal(t, CodeBadRequest, queryErr.Code)
		})
	}
}

func TestExecute_StoreFailureIsExecutionFailed(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.Execute(context.Background(), query.Request{
		Subject: query.SubjectSales,
		Filters: []query.Filter{{Field: "no_such_column", Op: query.OpEq, Value: 1}},
	})

	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, CodeExecutionFailed, queryErr.Code)
}

// seedCombinationData adds product line items on top of seedSales: the
// pair (1,2) rides on five January sales plus one February sale, the
// pair (3,4) on four January sales.
func seedCombinationData(t *testing.T, s *store.Store) {
	t.Helper()
	stmts := []string{
		`INSERT INTO products (id, name) VALUES (1, 'Burger'), (2, 'Fries'), (3, 'Pizza'), (4, 'Soda')`,
		`INSERT INTO sales (id, store_id, channel_id, sale_status_desc, total_amount, created_at) VALUES
			(10, 1, 1, 'COMPLETED', 100.0, '2025-01-02'),
			(11, 1, 1, 'COMPLETED', 100.0, '2025-01-06'),
			(12, 1, 1, 'COMPLETED', 100.0, '2025-01-12'),
			(13, 1, 1, 'COMPLETED', 100.0, '2025-01-18'),
			(14, 1, 1, 'COMPLETED', 100.0, '2025-01-24'),
			(15, 1, 1, 'COMPLETED', 100.0, '2025-02-03'),
			(16, 2, 2, 'COMPLETED', 60.0,  '2025-01-03'),
			(17, 2, 2, 'COMPLETED', 60.0,  '2025-01-09'),
			(18, 2, 2, 'COMPLETED', 60.0,  '2025-01-16'),
			(19, 2, 2, 'COMPLETED', 60.0,  '2025-01-23')`,
		`INSERT INTO product_sales (id, sale_id, product_id) VALUES
			(1, 10, 1), (2, 10, 2),
			(3, 11, 1), (4, 11, 2),
			(5, 12, 1), (6, 12, 2),
			(7, 13, 1), (8, 13, 2),
			(9, 14, 1), (10, 14, 2),
			(11, 15, 1), (12, 15, 2),
			(13, 16, 3), (14, 16, 4),
			(15, 17, 3), (16, 17, 4),
			(17, 18, 3), (18, 18, 4),
			(19, 19, 3), (20, 19, 4)`,
	}
	testutil.Seed(t, s, stmts...)
}

func TestProductCombinations_WindowAndThreshold(t *testing.T) {
	s := testutil.OpenTestStore(t)
	seedSales(t, s)
	seedCombinationData(t, s)
	eng := New(s, schema.Default(), WithQueryIDGenerator(FixedGenerator{ID: "test-query-id"}))

	result, err := eng.ProductCombinations(context.Background(), 5,
		&query.TimeRange{From: "2025-01-01", To: "2025-01-31"})
	require.NoError(t, err)

	// Inside January, (1,2) occurs five times and (3,4) only four;
	// the threshold keeps exactly the first pair.
	require.Len(t, result.Data, 1)
	pair := result.Data[0]
	assert.Equal(t, int64(1), pair.ProductIDA)
	assert.Equal(t, int64(2), pair.ProductIDB)
	assert.Equal(t, int64(5), pair.TimesTogether)
	assert.InDelta(t, 500.0, pair.TotalRevenue, 0.001)
	assert.InDelta(t, 100.0, pair.AverageTicket, 0.001)

	assert.Equal(t, 1, result.Metadata.TotalRows)
	assert.Equal(t, "test-query-id", result.Metadata.QueryID)
}

func TestProductCombinations_UnboundedOrdersByFrequency(t *testing.T) {
	s := testutil.OpenTestStore(t)
	seedSales(t, s)
	seedCombinationData(t, s)
	eng := New(s, schema.Default(), WithQueryIDGenerator(FixedGenerator{ID: "test-query-id"}))

	result, err := eng.ProductCombinations(context.Background(), 1, nil)
	require.NoError(t, err)

	require.Len(t, result.Data, 2)
	assert.Equal(t, int64(6), result.Data[0].TimesTogether) // (1,2) incl. February
	assert.Equal(t, int64(4), result.Data[1].TimesTogether) // (3,4)

	for _, pair := range result.Data {
		assert.Less(t, pair.ProductIDA, pair.ProductIDB)
	}
}

func TestProductCombinations_RejectsZeroMinimum(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.ProductCombinations(context.Background(), 0, nil)

	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, CodeBadRequest, queryErr.Code)
}
