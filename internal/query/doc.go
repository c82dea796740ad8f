// Package query defines the analytics query DSL: the in-memory request
// a client submits (subject, measures, dimensions, filters, time range,
// ordering, limit) and the result envelope it gets back.
//
// The package is pure data plus grammar validation. Translating a
// Request into SQL is the job of internal/sqlgen; executing it is the
// job of internal/engine.
package query
