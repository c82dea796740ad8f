package query

// Subject identifies the dataset a request targets. Each subject is
// backed by one base table plus a fixed set of reachable joins defined
// by the schema catalog.
type Subject string

const (
	SubjectSales      Subject = "sales"
	SubjectDeliveries Subject = "deliveries"
	SubjectProducts   Subject = "products"
	SubjectCustomers  Subject = "customers"
	SubjectItems      Subject = "items"
)

// Subjects lists every valid subject in declaration order.
var Subjects = []Subject{
	SubjectSales,
	SubjectDeliveries,
	SubjectProducts,
	SubjectCustomers,
	SubjectItems,
}

// Aggregation names an aggregate function applied to a measure field.
// The keyword is upper-cased into SQL; distinct_count becomes
// COUNT(DISTINCT field).
type Aggregation string

const (
	AggSum           Aggregation = "sum"
	AggAvg           Aggregation = "avg"
	AggCount         Aggregation = "count"
	AggMin           Aggregation = "min"
	AggMax           Aggregation = "max"
	AggDistinctCount Aggregation = "distinct_count"
)

// Operator is a filter comparison operator. Filters are conjunctive
// (AND) only; there is no OR, NOT, or grouping of conditions.
type Operator string

const (
	OpEq       Operator = "="
	OpNe       Operator = "!="
	OpGt       Operator = ">"
	OpLt       Operator = "<"
	OpGte      Operator = ">="
	OpLte      Operator = "<="
	OpBetween  Operator = "between"
	OpIn       Operator = "in"
	OpLike     Operator = "like"
	OpContains Operator = "contains"
)

// Measure is an aggregated output column.
//
// Name is the output alias and must be unique within a request.
// Field is the column the aggregation is applied to; ambiguous columns
// are qualified by the schema catalog at compile time.
type Measure struct {
	Name        string      `json:"name" yaml:"name"`
	Aggregation Aggregation `json:"aggregation" yaml:"aggregation"`
	Field       string      `json:"field" yaml:"field"`
}

// Dimension is a grouping key in the result.
//
// Name is informational only. Field selects either a stored column, a
// derived dimension (day_of_week, hour_of_day), or, with Grouping set,
// a temporal bucket over the field (e.g. "day", "month"). Dimension
// order determines SELECT and GROUP BY order.
type Dimension struct {
	Name     string `json:"name" yaml:"name"`
	Field    string `json:"field" yaml:"field"`
	Grouping string `json:"grouping,omitempty" yaml:"grouping,omitempty"`
}

// Filter is one conjunctive WHERE condition.
//
// Value is operator-shaped: between needs a two-element list, in takes a
// list (a scalar is coerced to a one-element list), like and contains
// take a scalar. Fields not covered by the catalog pass through
// verbatim into SQL.
type Filter struct {
	Field string   `json:"field" yaml:"field"`
	Op    Operator `json:"op" yaml:"op"`
	Value any      `json:"value" yaml:"value"`
}

// TimeRange is shorthand for two inclusive boundary filters on the
// subject's canonical temporal column.
type TimeRange struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// OrderBy orders the result by a single output field. The field is not
// validated against the SELECT list.
type OrderBy struct {
	Field     string `json:"field" yaml:"field"`
	Direction string `json:"direction" yaml:"direction"` // "asc" | "desc"
}

// Request is one declarative analytics query. It arrives already
// shape-validated (see Validate); the compiler turns it into a single
// SQL statement.
type Request struct {
	Subject    Subject     `json:"subject" yaml:"subject"`
	Measures   []Measure   `json:"measures,omitempty" yaml:"measures,omitempty"`
	Dimensions []Dimension `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Filters    []Filter    `json:"filters,omitempty" yaml:"filters,omitempty"`
	TimeRange  *TimeRange  `json:"timeRange,omitempty" yaml:"timeRange,omitempty"`
	OrderBy    *OrderBy    `json:"orderBy,omitempty" yaml:"orderBy,omitempty"`
	Limit      int         `json:"limit,omitempty" yaml:"limit,omitempty"` // 0 = unbounded
}

// Row is one normalized result row keyed by output alias.
type Row map[string]any

// Metadata describes one execution. Cached is always false: compiled
// queries have no identity beyond the request that produced them and
// are never reused.
type Metadata struct {
	QueryID         string `json:"queryId"`
	TotalRows       int    `json:"totalRows"`
	ExecutionTimeMs int64  `json:"executionTimeMs"`
	Cached          bool   `json:"cached"`
	SQL             string `json:"sql"`
}

// Result is the transport-safe outcome of executing a request.
type Result struct {
	Data     []Row    `json:"data"`
	Metadata Metadata `json:"metadata"`
}

// Combination is one co-purchased product pair. ProductIDA is always
// strictly less than ProductIDB, so each unordered pair appears once
// and a product is never paired with itself.
type Combination struct {
	ProductIDA    int64   `json:"productIdA"`
	ProductIDB    int64   `json:"productIdB"`
	TimesTogether int64   `json:"timesTogether"`
	TotalRevenue  float64 `json:"totalRevenue"`
	AverageTicket float64 `json:"averageTicket"`
}

// CombinationResult carries combination pairs in the same metadata
// envelope as Result.
type CombinationResult struct {
	Data     []Combination `json:"data"`
	Metadata Metadata      `json:"metadata"`
}
