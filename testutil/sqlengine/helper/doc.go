// Package helper provides test infrastructure for the SQL library store.
//
// It embeds the SQLite and PostgreSQL test schemas, offers Given* fixtures that arrange
// persisted entities through the store's own repositories, and contains spies for
// slog records and metrics calls.
package helper
