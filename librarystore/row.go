package librarystore

import (
	"fmt"
	"strconv"
	"time"
)

// dateLayouts lists the textual date formats drivers hand out for DATE columns (mostly SQLite).
var dateLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Row is one result row. Columns are addressed by name (the alias used in the query).
//
// SQL NULL reads as the zero value of the requested type, except for GetNullableDate,
// which returns nil. Reading a column that is not part of the row fails with ErrColumnMissing,
// a value of an unconvertible shape fails with ErrTypeMismatch.
type Row struct {
	values map[string]any
}

// BuildRow creates a Row from column name/value pairs.
func BuildRow(values map[string]any) Row {
	return Row{values: values}
}

// Has reports whether the row carries the column.
func (r Row) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

// IsNull reports whether the column is absent or SQL NULL.
func (r Row) IsNull(column string) bool {
	return r.values[column] == nil
}

// GetString reads a text column.
func (r Row) GetString(column string) (string, error) {
	raw, err := r.value(column)
	if err != nil {
		return "", err
	}

	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", mismatch(column, "string", raw)
	}
}

// GetInt reads an integer column.
func (r Row) GetInt(column string) (int64, error) {
	raw, err := r.value(column)
	if err != nil {
		return 0, err
	}

	switch v := raw.(type) {
	case nil:
		return 0, nil
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return 0, mismatch(column, "integer", raw)
		}
		return int64(v), nil
	case []byte:
		return parseInt(column, string(v))
	case string:
		return parseInt(column, v)
	default:
		return 0, mismatch(column, "integer", raw)
	}
}

// GetFloat reads a floating point column.
func (r Row) GetFloat(column string) (float64, error) {
	raw, err := r.value(column)
	if err != nil {
		return 0, err
	}

	switch v := raw.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case []byte:
		return parseFloat(column, string(v))
	case string:
		return parseFloat(column, v)
	default:
		return 0, mismatch(column, "float", raw)
	}
}

// GetBool reads a boolean column. Integer 0/1 (SQLite) and textual forms are accepted.
func (r Row) GetBool(column string) (bool, error) {
	raw, err := r.value(column)
	if err != nil {
		return false, err
	}

	switch v := raw.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case int64:
		return intToBool(column, v, raw)
	case int32:
		return intToBool(column, int64(v), raw)
	case int:
		return intToBool(column, int64(v), raw)
	case []byte:
		return parseBool(column, string(v))
	case string:
		return parseBool(column, v)
	default:
		return false, mismatch(column, "bool", raw)
	}
}

// GetDate reads a date column. NULL reads as the zero time.
func (r Row) GetDate(column string) (time.Time, error) {
	date, err := r.GetNullableDate(column)
	if err != nil {
		return time.Time{}, err
	}

	if date == nil {
		return time.Time{}, nil
	}

	return *date, nil
}

// GetNullableDate reads a nullable date column; NULL reads as nil.
func (r Row) GetNullableDate(column string) (*time.Time, error) {
	raw, err := r.value(column)
	if err != nil {
		return nil, err
	}

	switch v := raw.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &v, nil
	case []byte:
		return parseDate(column, string(v))
	case string:
		return parseDate(column, v)
	default:
		return nil, mismatch(column, "date", raw)
	}
}

func (r Row) value(column string) (any, error) {
	raw, ok := r.values[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnMissing, column)
	}

	return raw, nil
}

func mismatch(column string, want string, raw any) error {
	return fmt.Errorf("%w: column %q holds %T, want %s", ErrTypeMismatch, column, raw, want)
}

func parseInt(column string, s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, mismatch(column, "integer", s)
	}

	return v, nil
}

func parseFloat(column string, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, mismatch(column, "float", s)
	}

	return v, nil
}

func parseBool(column string, s string) (bool, error) {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, mismatch(column, "bool", s)
	}

	return v, nil
}

func intToBool(column string, v int64, raw any) (bool, error) {
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, mismatch(column, "bool", raw)
	}
}

func parseDate(column string, s string) (*time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}

	return nil, mismatch(column, "date", s)
}
