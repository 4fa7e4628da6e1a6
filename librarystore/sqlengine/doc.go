// Package sqlengine provides the SQL implementation of the library store.
//
// A Store pins exactly one connection, acquired from a ConnectionProvider, for its whole lifetime
// and is meant to be used sequentially. On top of that connection it offers:
//
//   - RunTransaction, the write coordinator that executes a librarystore.WritePlan atomically:
//     all steps commit together, a failed precondition or a required step that affected no rows
//     rolls everything back and reports false, a statement error rolls back and is returned.
//   - Aggregate repositories (Books, Copies, Loans, Fines) whose reads issue one join query and
//     fold the result with librarystore.Materialize.
//   - Simple single-table repositories (Authors, Categories, Users).
//
// Statements are built with goqu for the configured dialect: "postgres" (pgx, lib/pq, sqlx)
// or "sqlite3" (modernc.org/sqlite through database/sql or sqlx).
//
// Observability is optional and configured with functional options:
//
//	store, err := sqlengine.NewStoreFromSQLDB(ctx, db,
//		sqlengine.WithDialect(sqlengine.DialectSQLite),
//		sqlengine.WithLogger(slog.Default()),
//		sqlengine.WithMetrics(collector),
//	)
package sqlengine
