package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comandalabs/comanda/internal/query"
)

func writeRequestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "request.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRequest_ValidYAML(t *testing.T) {
	path := writeRequestFile(t, `
subject: sales
measures:
  - name: revenue
    aggregation: sum
    field: total_amount
dimensions:
  - field: store_id
filters:
  - field: sale_status_desc
    op: "="
    value: COMPLETED
timeRange:
  from: "2025-01-01"
  to: "2025-01-31"
orderBy:
  field: revenue
  direction: desc
limit: 100
`)

	req, err := LoadRequest(path)
	require.NoError(t, err)

	assert.Equal(t, query.SubjectSales, req.Subject)
	require.Len(t, req.Measures, 1)
	assert.Equal(t, query.AggSum, req.Measures[0].Aggregation)
	require.NotNil(t, req.TimeRange)
	assert.Equal(t, "2025-01-01", req.TimeRange.From)
	assert.Equal(t, 100, req.Limit)
}

func TestLoadRequest_JSONParsesAsYAMLSubset(t *testing.T) {
	path := writeRequestFile(t, `{"subject": "products", "dimensions": [{"field": "product_id"}]}`)

	req, err := LoadRequest(path)
	require.NoError(t, err)
	assert.Equal(t, query.SubjectProducts, req.Subject)
}

func TestLoadRequest_GrammarRejections(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{
			name:    "unknown subject",
			content: `subject: refunds`,
		},
		{
			name: "unknown operator",
			content: `
subject: sales
filters:
  - field: total_amount
    op: "~="
    value: 10
`,
		},
		{
			name: "unknown aggregation",
			content: `
subject: sales
measures:
  - name: m
    aggregation: median
    field: total_amount
`,
		},
		{
			name: "unknown time bucket",
			content: `
subject: sales
dimensions:
  - field: created_at
    grouping: fortnight
`,
		},
		{
			name: "limit over bound",
			content: `
subject: sales
limit: 20000
`,
		},
		{
			name: "unknown top-level field",
			content: `
subject: sales
having: something
`,
		},
		{
			name: "duplicate measure aliases",
			content: `
subject: sales
measures:
  - name: m
    aggregation: sum
    field: total_amount
  - name: m
    aggregation: avg
    field: total_amount
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadRequest(writeRequestFile(t, tc.content))

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "want LoadError, got %v", err)
			assert.Equal(t, ErrCodeSchemaInvalid, loadErr.Code)
		})
	}
}

func TestLoadRequest_MissingFile(t *testing.T) {
	_, err := LoadRequest(filepath.Join(t.TempDir(), "nope.yaml"))

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeLoadFailed, loadErr.Code)
}

func TestLoadRequest_EmptyFile(t *testing.T) {
	_, err := LoadRequest(writeRequestFile(t, ""))

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeLoadFailed, loadErr.Code)
}

func TestLoadRequest_NotYAMLAtAll(t *testing.T) {
	_, err := LoadRequest(writeRequestFile(t, "subject: [unterminated"))

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeLoadFailed, loadErr.Code)
}
