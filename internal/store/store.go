package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"           // production driver
	_ "github.com/mattn/go-sqlite3" // in-memory driver for tests
)

// Store provides the raw-query execution capability the engine runs
// compiled SQL through. It wraps a sqlx connection pool and is safe for
// concurrent use.
//
// Timeout and cancellation are whatever the caller's context and the
// driver enforce; the store adds none of its own.
type Store struct {
	db     *sqlx.DB
	driver string
}

// Open connects to a database. driver is "postgres" in production or
// "sqlite3" for in-memory test databases.
//
// SQLite connections get the usual single-writer configuration: one
// open connection, WAL journaling, busy timeout, and foreign key
// enforcement.
func Open(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		if err := applySQLitePragmas(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sqlx.DB for direct access. Prefer Query.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Query executes SQL written with ? placeholders, rebinding them for
// the active driver ($N on postgres), and returns every row as a
// column-name-keyed map. Result values keep whatever Go types the
// driver produced; normalization is the engine's job.
func (s *Store) Query(ctx context.Context, sqlText string, args ...any) ([]map[string]any, error) {
	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(sqlText), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Exec runs a statement without returning rows. Used by test fixtures
// to build schemas and seed data; the analytics path itself is
// read-only.
func (s *Store) Exec(ctx context.Context, sqlText string, args ...any) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(sqlText), args...)
	return err
}

func applySQLitePragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}
