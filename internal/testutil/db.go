package testutil

import (
	"context"
	"testing"

	"github.com/comandalabs/comanda/internal/store"
)

// restaurantSchema is a SQLite rendition of the production tables the
// analytics queries touch. Column types are loose on purpose: tests
// exercise join shape and aggregation, not DDL fidelity.
const restaurantSchema = `
CREATE TABLE stores (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE channels (
	id INTEGER PRIMARY KEY,
	description TEXT NOT NULL
);
CREATE TABLE customers (
	id INTEGER PRIMARY KEY,
	customer_name TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT '2025-01-01'
);
CREATE TABLE products (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE items (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE sales (
	id INTEGER PRIMARY KEY,
	store_id INTEGER REFERENCES stores(id),
	channel_id INTEGER REFERENCES channels(id),
	customer_id INTEGER REFERENCES customers(id),
	sale_status_desc TEXT NOT NULL DEFAULT 'COMPLETED',
	total_amount REAL NOT NULL DEFAULT 0,
	total_discount REAL NOT NULL DEFAULT 0,
	value_paid REAL NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE TABLE delivery_sales (
	id INTEGER PRIMARY KEY,
	sale_id INTEGER REFERENCES sales(id),
	delivery_fee REAL NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE TABLE delivery_addresses (
	id INTEGER PRIMARY KEY,
	sale_id INTEGER REFERENCES sales(id),
	city TEXT,
	state TEXT,
	neighborhood TEXT
);
CREATE TABLE product_sales (
	id INTEGER PRIMARY KEY,
	sale_id INTEGER REFERENCES sales(id),
	product_id INTEGER REFERENCES products(id),
	quantity INTEGER NOT NULL DEFAULT 1,
	price REAL NOT NULL DEFAULT 0
);
CREATE TABLE item_product_sales (
	id INTEGER PRIMARY KEY,
	product_sale_id INTEGER REFERENCES product_sales(id),
	item_id INTEGER REFERENCES items(id),
	quantity INTEGER NOT NULL DEFAULT 1,
	price REAL NOT NULL DEFAULT 0,
	additional_price REAL NOT NULL DEFAULT 0,
	amount REAL NOT NULL DEFAULT 0
);
`

// OpenTestStore opens an in-memory SQLite store with the restaurant
// schema applied. The store closes with the test.
func OpenTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.Exec(context.Background(), restaurantSchema); err != nil {
		t.Fatalf("apply test schema: %v", err)
	}
	return s
}

// Seed executes insert statements against the test store, failing the
// test on the first error.
func Seed(t *testing.T, s *store.Store, stmts ...string) {
	t.Helper()
	for _, stmt := range stmts {
		if err := s.Exec(context.Background(), stmt); err != nil {
			t.Fatalf("seed %q: %v", stmt, err)
		}
	}
}
