package storewrapper

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/relational-library-store-go/config"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore/sqlengine"
	"github.com/AntonStoeckl/relational-library-store-go/testutil/sqlengine/helper"
)

// Wrapper interface to abstract over different adapter types
type Wrapper interface {
	GetStore() *sqlengine.Store
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing
type PGXPoolWrapper struct {
	pool  *pgxpool.Pool
	store *sqlengine.Store
}

func (w *PGXPoolWrapper) GetStore() *sqlengine.Store {
	return w.store
}

func (w *PGXPoolWrapper) Close() {
	w.store.Close()
	w.pool.Close()
}

// SQLDBWrapper wraps sql.DB-based testing (lib/pq or modernc.org/sqlite)
type SQLDBWrapper struct {
	db    *sql.DB
	store *sqlengine.Store
}

func (w *SQLDBWrapper) GetStore() *sqlengine.Store {
	return w.store
}

func (w *SQLDBWrapper) Close() {
	w.store.Close()
	_ = w.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing (lib/pq or modernc.org/sqlite)
type SQLXWrapper struct {
	db    *sqlx.DB
	store *sqlengine.Store
}

func (w *SQLXWrapper) GetStore() *sqlengine.Store {
	return w.store
}

func (w *SQLXWrapper) Close() {
	w.store.Close()
	_ = w.db.Close() // ignore error
}

// CreateWrapperWithTestConfig creates the appropriate wrapper based on the ADAPTER_TYPE environment variable.
// It defaults to SQLite.
func CreateWrapperWithTestConfig(t testing.TB, options ...sqlengine.Option) Wrapper {
	return CreateWrapper(t, config.AdapterType(config.AdapterSQLite), options...)
}

// CreateWrapper creates a wrapper for the given adapter type on an empty library schema.
func CreateWrapper(t testing.TB, adapterType string, options ...sqlengine.Option) Wrapper {
	ctx := context.Background()

	if config.IsSQLite(adapterType) {
		options = append([]sqlengine.Option{sqlengine.WithDialect(sqlengine.DialectSQLite)}, options...)
	}

	switch adapterType {
	case config.AdapterPGXPool:
		poolConfig, err := config.PostgresPGXPoolConfig()
		assert.NoError(t, err, "error creating pool config in test setup")

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		assert.NoError(t, err, "error connecting to DB pool in test setup")

		prepare(t, sqlengine.DialectPostgres, func(ctx context.Context, statement string) error {
			_, execErr := pool.Exec(ctx, statement)
			return execErr
		})

		store, err := sqlengine.NewStoreFromPGXPool(ctx, pool, options...)
		assert.NoError(t, err, "error creating library store")

		return &PGXPoolWrapper{pool: pool, store: store}

	case config.AdapterSQLDB, config.AdapterSQLite:
		var db *sql.DB
		var err error

		dialect := sqlengine.DialectPostgres
		if adapterType == config.AdapterSQLite {
			dialect = sqlengine.DialectSQLite
			db, err = config.SQLiteDB(ctx, filepath.Join(t.TempDir(), "library.db"))
		} else {
			db, err = config.PostgresSQLDB(ctx)
		}

		assert.NoError(t, err, "error opening DB in test setup")

		prepare(t, dialect, func(ctx context.Context, statement string) error {
			_, execErr := db.ExecContext(ctx, statement)
			return execErr
		})

		store, err := sqlengine.NewStoreFromSQLDB(ctx, db, options...)
		assert.NoError(t, err, "error creating library store")

		return &SQLDBWrapper{db: db, store: store}

	case config.AdapterSQLXDB, config.AdapterSQLiteSQLX:
		var db *sqlx.DB
		var err error

		dialect := sqlengine.DialectPostgres
		if adapterType == config.AdapterSQLiteSQLX {
			dialect = sqlengine.DialectSQLite
			db, err = config.SQLiteSQLX(ctx, filepath.Join(t.TempDir(), "library.db"))
		} else {
			db, err = config.PostgresSQLX(ctx)
		}

		assert.NoError(t, err, "error opening DB in test setup")

		prepare(t, dialect, func(ctx context.Context, statement string) error {
			_, execErr := db.ExecContext(ctx, statement)
			return execErr
		})

		store, err := sqlengine.NewStoreFromSQLX(ctx, db, options...)
		assert.NoError(t, err, "error creating library store")

		return &SQLXWrapper{db: db, store: store}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterType))
	}
}

// prepare creates the schema and empties all tables.
func prepare(t testing.TB, dialect string, exec helper.ExecFunc) {
	ctx := context.Background()

	assert.NoError(t, helper.ApplySchema(ctx, dialect, exec), "error creating the library schema")

	if dialect == sqlengine.DialectPostgres {
		err := exec(ctx, "TRUNCATE TABLE fine, loan, book_copy, book_author, book, library_user, category, author RESTART IDENTITY CASCADE")
		assert.NoError(t, err, "error cleaning up the library tables")
	}
}

// CountRows returns the number of rows in a library table, read outside the store's connection.
func CountRows(t testing.TB, wrapper Wrapper, table string) int {
	var cnt int
	var err error

	query := "SELECT COUNT(*) FROM " + table

	switch w := wrapper.(type) {
	case *PGXPoolWrapper:
		err = w.pool.QueryRow(context.Background(), query).Scan(&cnt)

	case *SQLDBWrapper:
		err = w.db.QueryRow(query).Scan(&cnt)

	case *SQLXWrapper:
		err = w.db.Get(&cnt, query)

	default:
		panic(fmt.Sprintf("unsupported wrapper type: %T", w))
	}

	assert.NoError(t, err, "error counting rows of %s", table)

	return cnt
}

// Exec runs a raw statement outside the store's connection, e.g. to arrange inconsistent data.
func Exec(t testing.TB, wrapper Wrapper, statement string, args ...any) {
	var err error

	switch w := wrapper.(type) {
	case *PGXPoolWrapper:
		_, err = w.pool.Exec(context.Background(), statement, args...)

	case *SQLDBWrapper:
		_, err = w.db.Exec(statement, args...)

	case *SQLXWrapper:
		_, err = w.db.Exec(statement, args...)

	default:
		panic(fmt.Sprintf("unsupported wrapper type: %T", w))
	}

	assert.NoError(t, err, "error in arranging test data")
}
