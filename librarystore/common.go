package librarystore

import (
	"errors"
	"fmt"
)

var (
	// ErrDataAccess is the root of all infrastructure failures: the store rejected a statement,
	// the connection broke, or a result row could not be read.
	ErrDataAccess = errors.New("data access failed")

	// ErrColumnMissing is returned when a row does not carry an expected column.
	ErrColumnMissing = fmt.Errorf("%w: column missing", ErrDataAccess)

	// ErrTypeMismatch is returned when a column value cannot be converted to the requested type.
	ErrTypeMismatch = fmt.Errorf("%w: column type mismatch", ErrDataAccess)

	// ErrConnection is returned when no connection could be acquired from the provider.
	ErrConnection = fmt.Errorf("%w: connection unavailable", ErrDataAccess)

	// ErrTransactionAborted signals that a precondition of a write plan failed.
	// Engines roll back and report a false result instead of returning it.
	ErrTransactionAborted = errors.New("transaction aborted")

	// ErrTransactionInProgress is returned when a write plan is started while another one
	// holds the connection in manual commit mode.
	ErrTransactionInProgress = errors.New("a transaction is already in progress on this connection")

	// ErrNilDatabaseConnection is returned when a nil database handle is supplied to a factory.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyDialect is returned when an empty SQL dialect name is configured.
	ErrEmptyDialect = errors.New("sql dialect must not be empty")

	// ErrIncompleteRowMapping is returned when a RowMapping lacks KeyOf or BuildRoot.
	ErrIncompleteRowMapping = errors.New("row mapping needs KeyOf and BuildRoot")

	// ErrNilRoot is returned when BuildRoot returns a nil root without an error.
	ErrNilRoot = errors.New("row mapping built a nil root")

	// ErrEmptyWritePlan is returned when a write plan without steps is executed.
	ErrEmptyWritePlan = errors.New("write plan has no steps")

	// ErrBuildingStatementFailed is returned when a SQL statement could not be rendered.
	ErrBuildingStatementFailed = errors.New("building sql statement failed")
)

// Abort builds the error a precondition check returns to stop a write plan.
func Abort(reason string) error {
	return fmt.Errorf("%w: %s", ErrTransactionAborted, reason)
}

// IsAborted reports whether err signals a blocked write plan rather than an infrastructure failure.
func IsAborted(err error) bool {
	return errors.Is(err, ErrTransactionAborted)
}
