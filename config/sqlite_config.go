package config

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver
)

const sqliteDriverName = "sqlite"

// SQLiteDB opens and pings a *sql.DB on the SQLite file at path.
func SQLiteDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, SQLiteDSN(path))
	if err != nil {
		return nil, err
	}

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}

	return db, nil
}

// SQLiteSQLX opens and pings a *sqlx.DB on the SQLite file at path.
func SQLiteSQLX(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.Open(sqliteDriverName, SQLiteDSN(path))
	if err != nil {
		return nil, err
	}

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}

	return db, nil
}
