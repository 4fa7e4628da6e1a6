// Package storewrapper opens a library store for tests on the adapter selected by ADAPTER_TYPE.
//
// Without ADAPTER_TYPE the store runs on a fresh SQLite file (modernc.org/sqlite) per test, so the
// suite needs no external services. pgx.pool, sql.db and sqlx.db run the same tests against
// PostgreSQL (LIBRARY_PG_DSN); sqlite.sqlx runs them on SQLite through sqlx.
package storewrapper
