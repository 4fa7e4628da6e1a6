package helper

import (
	"context"
	_ "embed" // schema files
	"strings"
)

//go:embed schema/sqlite.sql
var sqliteSchema string

//go:embed schema/postgres.sql
var postgresSchema string

// Tables lists all library tables, dependents first.
var Tables = []string{"fine", "loan", "book_copy", "book_author", "book", "library_user", "category", "author"}

// ExecFunc executes one DDL or DML statement.
type ExecFunc func(ctx context.Context, statement string) error

// SchemaStatements returns the CREATE TABLE statements for the dialect ("postgres" or "sqlite3").
func SchemaStatements(dialect string) []string {
	schema := postgresSchema
	if dialect == "sqlite3" {
		schema = sqliteSchema
	}

	statements := make([]string, 0)

	for _, statement := range strings.Split(schema, ";") {
		if trimmed := strings.TrimSpace(statement); trimmed != "" {
			statements = append(statements, trimmed)
		}
	}

	return statements
}

// ApplySchema creates all library tables that do not exist yet.
func ApplySchema(ctx context.Context, dialect string, exec ExecFunc) error {
	for _, statement := range SchemaStatements(dialect) {
		if err := exec(ctx, statement); err != nil {
			return err
		}
	}

	return nil
}
