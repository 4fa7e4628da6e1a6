// Package librarystore provides the core abstractions of the relational data-access layer
// for the lending library domain.
//
// It contains the two algorithms that engines build on:
//
//   - Materialize, the generic row mapper that flattens a denormalized join result
//     (one row per root/child combination) into an ordered list of aggregates
//     with deduplicated child collections.
//   - WritePlan, the ordered list of statements and preconditions that an engine's
//     write coordinator executes as one all-or-nothing transaction.
//
// Key types:
//   - Row: one result row with named-column accessors (GetString, GetInt, GetBool, GetDate, ...)
//   - Cursor: a forward-only sequence of rows
//   - RowMapping: the three extension points (key extraction, root construction, child attachment)
//   - WritePlan and Step: the write coordinator's input
//
// Error taxonomy:
//   - ErrDataAccess and everything wrapping it (ErrColumnMissing, ErrTypeMismatch, ErrConnection):
//     infrastructure failures, always propagated to the caller.
//   - ErrTransactionAborted: a business rule blocked a write plan; engines report it as a false result.
//   - Not found: reads by key return found == false, never an error.
//
// Common usage pattern:
//
//	books, err := librarystore.Materialize(cursor, librarystore.RowMapping[string, library.Book]{
//		KeyOf:       func(row librarystore.Row) (string, error) { return row.GetString("book_isbn") },
//		BuildRoot:   buildBook,
//		AttachChild: attachAuthor,
//	})
package librarystore
