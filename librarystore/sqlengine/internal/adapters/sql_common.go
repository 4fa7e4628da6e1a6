package adapters

import (
	"database/sql"
)

// stdRows wraps standard library sql.Rows to implement DBRows interface
type stdRows struct {
	rows    *sql.Rows
	columns []string
}

func (s *stdRows) Next() bool {
	return s.rows.Next()
}

func (s *stdRows) Values() (map[string]any, error) {
	if s.columns == nil {
		columns, err := s.rows.Columns()
		if err != nil {
			return nil, err
		}

		s.columns = columns
	}

	values := make([]any, len(s.columns))
	dest := make([]any, len(s.columns))

	for i := range values {
		dest[i] = &values[i]
	}

	if err := s.rows.Scan(dest...); err != nil {
		return nil, err
	}

	row := make(map[string]any, len(s.columns))
	for i, column := range s.columns {
		row[column] = values[i]
	}

	return row, nil
}

func (s *stdRows) Err() error {
	return s.rows.Err()
}

func (s *stdRows) Close() error {
	return s.rows.Close()
}

// stdResult wraps standard library sql.Result to implement DBResult interface
type stdResult struct {
	result sql.Result
}

func (s *stdResult) RowsAffected() (int64, error) {
	return s.result.RowsAffected()
}
