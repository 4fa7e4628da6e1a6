package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore/sqlengine/internal/adapters"
)

const (
	// DialectPostgres renders statements for PostgreSQL.
	DialectPostgres = "postgres"

	// DialectSQLite renders statements for SQLite.
	DialectSQLite = "sqlite3"
)

// Store is the SQL library store. It owns one connection from acquisition until Close.
type Store struct {
	provider         ConnectionProvider
	conn             *Connection
	dialectName      string
	dialect          goqu.DialectWrapper
	logger           librarystore.Logger
	contextualLogger librarystore.ContextualLogger
	metricsCollector librarystore.MetricsCollector
	tracingCollector librarystore.TracingCollector
}

// NewStore acquires one connection from the provider and creates a Store on it.
func NewStore(ctx context.Context, provider ConnectionProvider, options ...Option) (*Store, error) {
	if provider == nil {
		return nil, librarystore.ErrNilDatabaseConnection
	}

	s := &Store{provider: provider}
	s.useDialect(DialectPostgres)

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	conn, err := provider.Acquire(ctx)
	if err != nil {
		s.logError(ctx, logMsgAcquireFailed, err)
		s.recordErrorMetrics(ctx, operationAcquire, errorTypeConnection)

		return nil, err
	}

	s.conn = conn

	return s, nil
}

// NewStoreFromPGXPool creates a new Store on a connection taken from a pgx Pool.
func NewStoreFromPGXPool(ctx context.Context, db *pgxpool.Pool, options ...Option) (*Store, error) {
	provider, err := NewPGXPoolProvider(db)
	if err != nil {
		return nil, err
	}

	return NewStore(ctx, provider, options...)
}

// NewStoreFromSQLDB creates a new Store on a connection taken from a sql.DB.
func NewStoreFromSQLDB(ctx context.Context, db *sql.DB, options ...Option) (*Store, error) {
	provider, err := NewSQLDBProvider(db)
	if err != nil {
		return nil, err
	}

	return NewStore(ctx, provider, options...)
}

// NewStoreFromSQLX creates a new Store on a connection taken from a sqlx.DB.
func NewStoreFromSQLX(ctx context.Context, db *sqlx.DB, options ...Option) (*Store, error) {
	provider, err := NewSQLXProvider(db)
	if err != nil {
		return nil, err
	}

	return NewStore(ctx, provider, options...)
}

// Close releases the pinned connection. Calling it more than once is harmless.
func (s *Store) Close() {
	if s.conn == nil {
		return
	}

	if err := s.provider.Release(s.conn); err != nil {
		s.logWarn(context.Background(), logMsgReleaseFailed, logAttrError, err.Error())
	}

	s.conn = nil
}

// AutoCommit reports the commit mode of the pinned connection.
func (s *Store) AutoCommit() bool {
	return s.conn != nil && s.conn.AutoCommit()
}

// Dialect returns the name of the configured SQL dialect.
func (s *Store) Dialect() string {
	return s.dialectName
}

// Books returns the Book aggregate repository.
func (s *Store) Books() BookRepository {
	return BookRepository{store: s}
}

// Copies returns the Copy aggregate repository.
func (s *Store) Copies() CopyRepository {
	return CopyRepository{store: s}
}

// Loans returns the Loan aggregate repository.
func (s *Store) Loans() LoanRepository {
	return LoanRepository{store: s}
}

// Fines returns the Fine aggregate repository.
func (s *Store) Fines() FineRepository {
	return FineRepository{store: s}
}

// Authors returns the Author repository.
func (s *Store) Authors() AuthorRepository {
	return AuthorRepository{store: s}
}

// Categories returns the Category repository.
func (s *Store) Categories() CategoryRepository {
	return CategoryRepository{store: s}
}

// Users returns the User repository.
func (s *Store) Users() UserRepository {
	return UserRepository{store: s}
}

func (s *Store) useDialect(name string) {
	s.dialectName = name
	s.dialect = goqu.Dialect(name)
}

// connection returns the pinned connection or ErrConnection after Close.
func (s *Store) connection() (adapters.DBConn, error) {
	if s.conn == nil {
		return nil, errors.Join(librarystore.ErrConnection, errStoreClosed)
	}

	return s.conn.db, nil
}

// sqlBuilder is implemented by all goqu datasets.
type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

func toStatement(builder sqlBuilder) (librarystore.Statement, error) {
	sqlQuery, args, err := builder.ToSQL()
	if err != nil {
		return librarystore.Statement{}, errors.Join(librarystore.ErrBuildingStatementFailed, err)
	}

	return librarystore.Statement{SQL: sqlQuery, Args: args}, nil
}

// fixed turns a goqu dataset into a StatementBuilder for write plans.
func fixed(builder sqlBuilder) librarystore.StatementBuilder {
	return librarystore.Fixed(toStatement(builder))
}

// materialize runs a select and folds the rows into aggregates.
func materialize[K comparable, T any](
	ctx context.Context,
	s *Store,
	action string,
	builder sqlBuilder,
	mapping librarystore.RowMapping[K, T],
) ([]T, error) {

	stmt, err := toStatement(builder)
	if err != nil {
		s.logError(ctx, logMsgBuildQueryFailed, err, logAttrOperation, action)
		return nil, err
	}

	conn, err := s.connection()
	if err != nil {
		return nil, err
	}

	ctx, span := s.startTraceSpan(ctx, spanNameQuery, map[string]string{spanAttrOperation: action})
	start := time.Now()

	rows, err := conn.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		s.logError(ctx, logMsgQueryFailed, err, logAttrOperation, action, logAttrQuery, stmt.SQL)
		s.recordErrorMetrics(ctx, action, errorTypeQuery)
		s.recordDurationMetrics(ctx, metricQueryDuration, time.Since(start), action, statusError)
		s.finishTraceSpanError(span, errorTypeQuery)

		return nil, errors.Join(librarystore.ErrDataAccess, err)
	}
	defer s.closeRows(ctx, rows)

	aggregates, err := librarystore.Materialize(&rowsCursor{rows: rows}, mapping)
	duration := time.Since(start)
	s.logQueryWithDuration(ctx, stmt.SQL, action, duration)

	if err != nil {
		s.logError(ctx, logMsgMaterializeFailed, err, logAttrOperation, action)
		s.recordErrorMetrics(ctx, action, errorTypeMapping)
		s.recordDurationMetrics(ctx, metricQueryDuration, duration, action, statusError)
		s.finishTraceSpanError(span, errorTypeMapping)

		return nil, err
	}

	s.finishTraceSpan(span, statusSuccess, map[string]string{spanAttrAggregateCount: strconv.Itoa(len(aggregates))})
	s.logOperation(ctx, action, logAttrAggregateCount, len(aggregates), logAttrDurationMS, toMilliseconds(duration))
	s.recordDurationMetrics(ctx, metricQueryDuration, duration, action, statusSuccess)
	s.recordValueMetrics(ctx, metricAggregatesMaterialized, float64(len(aggregates)), action, statusSuccess)

	return aggregates, nil
}

// materializeOne runs a select by key; an empty result is reported as found == false.
func materializeOne[K comparable, T any](
	ctx context.Context,
	s *Store,
	action string,
	builder sqlBuilder,
	mapping librarystore.RowMapping[K, T],
) (T, bool, error) {

	var empty T

	aggregates, err := materialize(ctx, s, action, builder, mapping)
	if err != nil {
		return empty, false, err
	}

	if len(aggregates) == 0 {
		return empty, false, nil
	}

	return aggregates[0], true, nil
}

// execSingle runs one auto-committed statement and reports whether it affected any row.
func (s *Store) execSingle(ctx context.Context, action string, builder sqlBuilder) (bool, error) {
	stmt, err := toStatement(builder)
	if err != nil {
		s.logError(ctx, logMsgBuildQueryFailed, err, logAttrOperation, action)
		return false, err
	}

	conn, err := s.connection()
	if err != nil {
		return false, err
	}

	ctx, span := s.startTraceSpan(ctx, spanNameExec, map[string]string{spanAttrOperation: action})
	start := time.Now()

	result, err := conn.Exec(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		s.logError(ctx, logMsgExecFailed, err, logAttrOperation, action, logAttrQuery, stmt.SQL)
		s.recordErrorMetrics(ctx, action, errorTypeExec)
		s.recordDurationMetrics(ctx, metricQueryDuration, time.Since(start), action, statusError)
		s.finishTraceSpanError(span, errorTypeExec)

		return false, errors.Join(librarystore.ErrDataAccess, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logError(ctx, logMsgRowsAffectedFailed, err, logAttrOperation, action)
		s.finishTraceSpanError(span, errorTypeExec)

		return false, errors.Join(librarystore.ErrDataAccess, err)
	}

	s.finishTraceSpan(span, statusSuccess, map[string]string{spanAttrRowsAffected: strconv.FormatInt(rowsAffected, 10)})
	duration := time.Since(start)
	s.logQueryWithDuration(ctx, stmt.SQL, action, duration)
	s.logOperation(ctx, action, logAttrRowsAffected, rowsAffected, logAttrDurationMS, toMilliseconds(duration))
	s.recordDurationMetrics(ctx, metricQueryDuration, duration, action, statusSuccess)

	return rowsAffected > 0, nil
}

// insertReturningID runs an auto-committed insert and returns the generated "id".
// Both PostgreSQL and SQLite (3.35+) support the RETURNING clause.
func (s *Store) insertReturningID(ctx context.Context, action string, builder sqlBuilder) (int64, error) {
	stmt, err := toStatement(builder)
	if err != nil {
		s.logError(ctx, logMsgBuildQueryFailed, err, logAttrOperation, action)
		return 0, err
	}

	stmt.SQL += " RETURNING " + colID

	conn, err := s.connection()
	if err != nil {
		return 0, err
	}

	ctx, span := s.startTraceSpan(ctx, spanNameExec, map[string]string{spanAttrOperation: action})
	start := time.Now()

	rows, err := conn.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		s.logError(ctx, logMsgExecFailed, err, logAttrOperation, action, logAttrQuery, stmt.SQL)
		s.recordErrorMetrics(ctx, action, errorTypeExec)
		s.finishTraceSpanError(span, errorTypeExec)

		return 0, errors.Join(librarystore.ErrDataAccess, err)
	}
	defer s.closeRows(ctx, rows)

	row, found, err := firstRow(rows)
	if err != nil {
		s.logError(ctx, logMsgExecFailed, err, logAttrOperation, action, logAttrQuery, stmt.SQL)
		s.recordErrorMetrics(ctx, action, errorTypeExec)
		s.finishTraceSpanError(span, errorTypeExec)

		return 0, err
	}

	if !found {
		s.finishTraceSpanError(span, errorTypeExec)
		return 0, errors.Join(librarystore.ErrDataAccess, errNoGeneratedID)
	}

	id, err := row.GetInt(colID)
	if err != nil {
		s.finishTraceSpanError(span, errorTypeMapping)
		return 0, err
	}

	s.finishTraceSpan(span, statusSuccess, map[string]string{spanAttrRowsAffected: "1"})
	duration := time.Since(start)
	s.logQueryWithDuration(ctx, stmt.SQL, action, duration)
	s.logOperation(ctx, action, logAttrID, id, logAttrDurationMS, toMilliseconds(duration))
	s.recordDurationMetrics(ctx, metricQueryDuration, duration, action, statusSuccess)

	return id, nil
}

// firstRow reads the first row of a result, if any.
func firstRow(rows adapters.DBRows) (librarystore.Row, bool, error) {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return librarystore.Row{}, false, errors.Join(librarystore.ErrDataAccess, err)
		}

		return librarystore.Row{}, false, nil
	}

	values, err := rows.Values()
	if err != nil {
		return librarystore.Row{}, false, errors.Join(librarystore.ErrDataAccess, err)
	}

	return librarystore.BuildRow(values), true, nil
}

func (s *Store) closeRows(ctx context.Context, rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		s.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, err.Error())
	}
}

// rowsCursor adapts driver rows to librarystore.Cursor.
type rowsCursor struct {
	rows adapters.DBRows
}

func (c *rowsCursor) Next() bool {
	return c.rows.Next()
}

func (c *rowsCursor) Row() (librarystore.Row, error) {
	values, err := c.rows.Values()
	if err != nil {
		return librarystore.Row{}, errors.Join(librarystore.ErrDataAccess, err)
	}

	return librarystore.BuildRow(values), nil
}

func (c *rowsCursor) Err() error {
	return c.rows.Err()
}
