package engine

import (
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeValue(t *testing.T) {
	decimal, _, err := apd.NewFromString("99.90")
	require.NoError(t, err)

	testCases := []struct {
		name string
		in   any
		want any
	}{
		{name: "nil", in: nil, want: nil},
		{name: "int64 widens", in: int64(42), want: float64(42)},
		{name: "int32 widens", in: int32(7), want: float64(7)},
		{name: "int widens", in: 3, want: float64(3)},
		{name: "uint64 widens", in: uint64(9), want: float64(9)},
		{name: "float32 widens", in: float32(1.5), want: float64(1.5)},
		{name: "float64 untouched", in: 2.5, want: 2.5},
		{name: "decimal string parses", in: "12.50", want: 12.5},
		{name: "negative decimal string", in: "-0.25", want: -0.25},
		{name: "non-numeric string survives", in: "CANCELLED", want: "CANCELLED"},
		{name: "date string survives", in: "2025-01-31", want: "2025-01-31"},
		{name: "empty string survives", in: "", want: ""},
		{name: "NaN text is not a number", in: "NaN", want: "NaN"},
		{name: "numeric bytes parse", in: []byte("3.14"), want: 3.14},
		{name: "text bytes become string", in: []byte("iFood"), want: "iFood"},
		{name: "decimal pointer", in: decimal, want: 99.9},
		{name: "decimal value", in: *decimal, want: 99.9},
		{name: "nil decimal pointer", in: (*apd.Decimal)(nil), want: nil},
		{name: "bool untouched", in: true, want: true},
		{name: "empty map collapses to nil", in: map[string]any{}, want: nil},
		{
			name: "timestamp renders RFC 3339 in UTC",
			in:   time.Date(2025, 1, 15, 13, 30, 0, 0, time.FixedZone("BRT", -3*3600)),
			want: "2025-01-15T16:30:00Z",
		},
		{
			name: "maps recurse",
			in:   map[string]any{"total": int64(10), "label": "a"},
			want: map[string]any{"total": float64(10), "label": "a"},
		},
		{
			name: "slices recurse",
			in:   []any{int64(1), "2.5", "x"},
			want: []any{float64(1), 2.5, "x"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeValue(tc.in))
		})
	}
}

func TestNormalizeRows(t *testing.T) {
	rows := []map[string]any{
		{"revenue": "150.75", "orders": int64(3)},
		{"revenue": nil, "orders": int64(0)},
	}

	out := normalizeRows(rows)
	require.Len(t, out, 2)
	assert.Equal(t, 150.75, out[0]["revenue"])
	assert.Equal(t, float64(3), out[0]["orders"])
	assert.Nil(t, out[1]["revenue"])
}

func TestCoercions(t *testing.T) {
	assert.Equal(t, int64(5), asInt64(float64(5)))
	assert.Equal(t, int64(5), asInt64(int64(5)))
	assert.Equal(t, int64(0), asInt64("not a number"))

	assert.Equal(t, 2.5, asFloat64(2.5))
	assert.Equal(t, 2.0, asFloat64(int64(2)))
	assert.Equal(t, 0.0, asFloat64(nil))
}
