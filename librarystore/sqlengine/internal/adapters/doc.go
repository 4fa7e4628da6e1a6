// Package adapters provide database adapter implementations for the SQL library store.
//
// This package implements the adapter pattern to support multiple database libraries:
// pgxpool.Pool, sql.DB, and sqlx.DB. Each adapter hands out dedicated connections through
// the common DBAdapter interface, and every connection offers the same query, exec and
// transaction contract, so the store works with any supported driver (PostgreSQL via pgx
// or lib/pq, SQLite via modernc.org/sqlite).
//
// Result rows are exposed as column-name/value maps, which keeps the store independent of
// the driver's scan semantics.
package adapters
