package sqlengine

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore/sqlengine/internal/adapters"
)

// Connection is one dedicated database connection together with its commit mode.
// It starts in auto-commit mode; the write coordinator switches it to manual commit for
// the duration of a plan.
type Connection struct {
	db         adapters.DBConn
	autoCommit bool
}

// AutoCommit reports whether the connection is in auto-commit mode.
func (c *Connection) AutoCommit() bool {
	return c.autoCommit
}

// ConnectionProvider hands out dedicated connections and takes them back.
type ConnectionProvider interface {
	Acquire(ctx context.Context) (*Connection, error)
	Release(conn *Connection) error
}

// PooledConnectionProvider is a ConnectionProvider backed by a driver connection pool.
type PooledConnectionProvider struct {
	adapter adapters.DBAdapter
}

// NewPGXPoolProvider creates a ConnectionProvider for a pgx pool.
func NewPGXPoolProvider(pool *pgxpool.Pool) (*PooledConnectionProvider, error) {
	if pool == nil {
		return nil, librarystore.ErrNilDatabaseConnection
	}

	return &PooledConnectionProvider{adapter: adapters.NewPGXAdapter(pool)}, nil
}

// NewSQLDBProvider creates a ConnectionProvider for a sql.DB (lib/pq or modernc.org/sqlite).
func NewSQLDBProvider(db *sql.DB) (*PooledConnectionProvider, error) {
	if db == nil {
		return nil, librarystore.ErrNilDatabaseConnection
	}

	return &PooledConnectionProvider{adapter: adapters.NewSQLAdapter(db)}, nil
}

// NewSQLXProvider creates a ConnectionProvider for a sqlx.DB.
func NewSQLXProvider(db *sqlx.DB) (*PooledConnectionProvider, error) {
	if db == nil {
		return nil, librarystore.ErrNilDatabaseConnection
	}

	return &PooledConnectionProvider{adapter: adapters.NewSQLXAdapter(db)}, nil
}

// Acquire reserves a connection in auto-commit mode.
// Failures are reported as librarystore.ErrConnection.
func (p *PooledConnectionProvider) Acquire(ctx context.Context) (*Connection, error) {
	conn, err := p.adapter.Acquire(ctx)
	if err != nil {
		return nil, errors.Join(librarystore.ErrConnection, err)
	}

	return &Connection{db: conn, autoCommit: true}, nil
}

// Release hands the connection back to the pool.
func (p *PooledConnectionProvider) Release(conn *Connection) error {
	if conn == nil || conn.db == nil {
		return nil
	}

	return conn.db.Release()
}
