package adapters

import (
	"context"
)

// DBAdapter hands out dedicated connections from an underlying pool.
type DBAdapter interface {
	Acquire(ctx context.Context) (DBConn, error)
}

// DBExecutor runs statements; both connections and transactions implement it.
type DBExecutor interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)
}

// DBConn is one dedicated connection.
type DBConn interface {
	DBExecutor
	Begin(ctx context.Context) (DBTx, error)
	Release() error
}

// DBTx is a transaction opened on a DBConn.
type DBTx interface {
	DBExecutor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Values() (map[string]any, error)
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}
