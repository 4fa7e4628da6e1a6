package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/relational-library-store-go/config"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore/sqlengine"
)

var errUnsupportedAdapter = errors.New("unsupported adapter")

// openStore opens the database for the configured adapter and a Store on it.
// The returned func closes the database handle; the Store must be closed first.
func openStore(ctx context.Context, cfg cliConfig, options ...sqlengine.Option) (*sqlengine.Store, func(), error) {
	if config.IsSQLite(cfg.adapter) {
		options = append([]sqlengine.Option{sqlengine.WithDialect(sqlengine.DialectSQLite)}, options...)
	}

	switch cfg.adapter {
	case config.AdapterSQLite:
		db, err := config.SQLiteDB(ctx, cfg.sqlitePath)
		if err != nil {
			return nil, nil, err
		}

		store, err := sqlengine.NewStoreFromSQLDB(ctx, db, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	case config.AdapterSQLiteSQLX:
		db, err := config.SQLiteSQLX(ctx, cfg.sqlitePath)
		if err != nil {
			return nil, nil, err
		}

		store, err := sqlengine.NewStoreFromSQLX(ctx, db, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	case config.AdapterPGXPool:
		poolConfig, err := config.PostgresPGXPoolConfig()
		if err != nil {
			return nil, nil, err
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, nil, err
		}

		store, err := sqlengine.NewStoreFromPGXPool(ctx, pool, options...)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		return store, pool.Close, nil

	case config.AdapterSQLDB:
		db, err := config.PostgresSQLDB(ctx)
		if err != nil {
			return nil, nil, err
		}

		store, err := sqlengine.NewStoreFromSQLDB(ctx, db, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	case config.AdapterSQLXDB:
		db, err := config.PostgresSQLX(ctx)
		if err != nil {
			return nil, nil, err
		}

		store, err := sqlengine.NewStoreFromSQLX(ctx, db, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("%w %q", errUnsupportedAdapter, cfg.adapter)
	}
}
