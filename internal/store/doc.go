// Package store is the thin database access layer: open a connection
// pool, execute pre-compiled SQL, hand rows back as maps. It knows
// nothing about the query DSL.
//
// Production runs on postgres (lib/pq); tests run on in-memory SQLite.
// Compiled SQL uses ? placeholders and is rebound per driver via sqlx.
package store
