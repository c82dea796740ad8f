package engine

import (
	"time"

	"github.com/cockroachdb/apd/v3"

	"github.com/comandalabs/comanda/internal/query"
)

// normalizeRows converts every scalar in the result set into a
// transport-safe value. Drivers hand back a mix of wide integers,
// decimal strings (how SUM/AVG over DECIMAL columns serialize), byte
// slices and timestamps; callers get plain float64 numbers, RFC 3339
// strings, and nothing else surprising.
func normalizeRows(rows []map[string]any) []query.Row {
	out := make([]query.Row, len(rows))
	for i, row := range rows {
		out[i] = normalizeRow(row)
	}
	return out
}

func normalizeRow(row map[string]any) query.Row {
	normalized := make(query.Row, len(row))
	for k, v := range row {
		normalized[k] = normalizeValue(v)
	}
	return normalized
}

// normalizeValue applies the conversion rules recursively:
//
//   - wide integers -> float64
//   - decimal strings and byte slices -> float64 (non-numeric text
//     passes through as a string)
//   - structured decimals (apd.Decimal) -> float64 via their text form
//   - timestamps -> RFC 3339 strings
//   - empty maps -> nil (a temporal value the driver could not
//     represent)
//   - maps and slices recurse; everything else passes through
func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	case int:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	case []byte:
		return normalizeString(string(val))
	case string:
		return normalizeString(val)
	case *apd.Decimal:
		if val == nil {
			return nil
		}
		return decimalToFloat(val.String())
	case apd.Decimal:
		return decimalToFloat(val.String())
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case map[string]any:
		if len(val) == 0 {
			return nil
		}
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return val
	}
}

// normalizeString parses numeric-looking text into float64 and leaves
// everything else alone.
func normalizeString(s string) any {
	if s == "" {
		return s
	}
	d, _, err := apd.NewFromString(s)
	if err != nil || d.Form != apd.Finite {
		return s
	}
	f, err := d.Float64()
	if err != nil {
		return s
	}
	return f
}

// decimalToFloat converts a decimal's text form, falling back to zero
// when the value does not fit a float, mirroring how the upstream API
// serialized unrepresentable decimals.
func decimalToFloat(s string) float64 {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return 0
	}
	f, err := d.Float64()
	if err != nil {
		return 0
	}
	return f
}

// asInt64 coerces a normalized value to int64.
func asInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}

// asFloat64 coerces a normalized value to float64.
func asFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}
