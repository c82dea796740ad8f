package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/comandalabs/comanda/internal/query"
	"github.com/comandalabs/comanda/internal/schema"
	"github.com/comandalabs/comanda/internal/sqlgen"
	"github.com/comandalabs/comanda/internal/store"
)

// QueryIDGenerator produces correlation ids for result metadata.
// Implemented by UUIDv7Generator (production) and FixedGenerator
// (tests).
type QueryIDGenerator interface {
	Generate() string
}

// UUIDv7Generator issues time-ordered UUIDs so query ids sort by
// submission time in logs.
type UUIDv7Generator struct{}

func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator always returns the same id. Test use only.
type FixedGenerator struct{ ID string }

func (g FixedGenerator) Generate() string { return g.ID }

// Engine compiles requests against the catalog and executes them
// through the store. It is stateless apart from its wiring: requests
// may be compiled and executed fully concurrently, each mapping to
// exactly one blocking round-trip. No caching, no retries, no
// background work; cancellation is the caller's context.
type Engine struct {
	store    *store.Store
	compiler *sqlgen.Compiler
	idGen    QueryIDGenerator
}

// Option configures an Engine.
type Option func(*Engine)

// WithQueryIDGenerator overrides the metadata id generator.
func WithQueryIDGenerator(g QueryIDGenerator) Option {
	return func(e *Engine) { e.idGen = g }
}

// New creates an Engine over a store and schema catalog.
func New(s *store.Store, catalog *schema.Catalog, opts ...Option) *Engine {
	e := &Engine{
		store:    s,
		compiler: sqlgen.New(catalog),
		idGen:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute compiles a request, runs it, and normalizes the rows into
// transport-safe values.
//
// Failures are always a *QueryError: BAD_REQUEST when compilation
// rejected the request (no SQL executed), EXECUTION_FAILED for
// anything the store reported. Either the full normalized row set is
// returned or none is.
func (e *Engine) Execute(ctx context.Context, req query.Request) (*query.Result, error) {
	start := time.Now()
	queryID := e.idGen.Generate()

	compiled, err := e.compiler.Compile(req)
	if err != nil {
		slog.Debug("query rejected at compile time",
			"query_id", queryID,
			"subject", req.Subject,
			"error", err)
		return nil, classifyCompileError(err)
	}

	slog.Debug("executing query",
		"query_id", queryID,
		"subject", req.Subject,
		"sql", compiled.SQL,
		"args", len(compiled.Args))

	rows, err := e.store.Query(ctx, compiled.SQL, compiled.Args...)
	if err != nil {
		slog.Error("query execution failed",
			"query_id", queryID,
			"sql", compiled.SQL,
			"error", err)
		return nil, executionFailed(err)
	}

	data := normalizeRows(rows)
	elapsed := time.Since(start)

	slog.Info("query executed",
		"query_id", queryID,
		"subject", req.Subject,
		"rows", len(data),
		"elapsed_ms", elapsed.Milliseconds())

	return &query.Result{
		Data: data,
		Metadata: query.Metadata{
			QueryID:         queryID,
			TotalRows:       len(data),
			ExecutionTimeMs: elapsed.Milliseconds(),
			Cached:          false,
			SQL:             compiled.SQL,
		},
	}, nil
}

// ProductCombinations answers "which pairs of products are frequently
// purchased together" over an optional time window, keeping only pairs
// seen at least minOccurrences times.
func (e *Engine) ProductCombinations(ctx context.Context, minOccurrences int, tr *query.TimeRange) (*query.CombinationResult, error) {
	start := time.Now()
	queryID := e.idGen.Generate()

	compiled, err := sqlgen.CompileCombinations(minOccurrences, tr)
	if err != nil {
		return nil, classifyCompileError(err)
	}

	slog.Debug("executing combination query",
		"query_id", queryID,
		"min_occurrences", minOccurrences,
		"sql", compiled.SQL)

	rows, err := e.store.Query(ctx, compiled.SQL, compiled.Args...)
	if err != nil {
		slog.Error("combination query failed",
			"query_id", queryID,
			"sql", compiled.SQL,
			"error", err)
		return nil, executionFailed(err)
	}

	data := make([]query.Combination, 0, len(rows))
	for _, row := range rows {
		normalized := normalizeRow(row)
		data = append(data, query.Combination{
			ProductIDA:    asInt64(normalized["product_id_a"]),
			ProductIDB:    asInt64(normalized["product_id_b"]),
			TimesTogether: asInt64(normalized["times_together"]),
			TotalRevenue:  asFloat64(normalized["total_revenue"]),
			AverageTicket: asFloat64(normalized["average_ticket"]),
		})
	}
	elapsed := time.Since(start)

	slog.Info("combination query executed",
		"query_id", queryID,
		"pairs", len(data),
		"elapsed_ms", elapsed.Milliseconds())

	return &query.CombinationResult{
		Data: data,
		Metadata: query.Metadata{
			QueryID:         queryID,
			TotalRows:       len(data),
			ExecutionTimeMs: elapsed.Milliseconds(),
			Cached:          false,
			SQL:             compiled.SQL,
		},
	}, nil
}
