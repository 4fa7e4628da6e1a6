// Package config provides database and logging configuration for the library store.
//
// It contains factory functions for the connection pools the store's adapters accept:
// PostgreSQL through pgx.Pool, sql.DB (lib/pq) or sqlx.DB, and SQLite files through
// sql.DB or sqlx.DB on the pure Go modernc.org/sqlite driver.
//
// Connection settings come from the environment, with defaults that match the local
// test setup:
//
//	LIBRARY_PG_DSN       PostgreSQL DSN
//	LIBRARY_SQLITE_PATH  SQLite database file
//	ADAPTER_TYPE         pgx.pool | sql.db | sqlx.db | sqlite | sqlite.sqlx
package config
