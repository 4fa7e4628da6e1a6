package librarystore

// Cursor is a forward-only sequence of result rows.
// Err reports the error that ended iteration, if any, and must be checked after Next returned false.
type Cursor interface {
	Next() bool
	Row() (Row, error)
	Err() error
}

// RowsCursor is an in-memory Cursor over prepared rows.
type RowsCursor struct {
	rows []Row
	pos  int
}

// NewRowsCursor creates a Cursor that yields the given rows in order.
func NewRowsCursor(rows ...Row) *RowsCursor {
	return &RowsCursor{rows: rows, pos: -1}
}

// Next advances to the next row.
func (c *RowsCursor) Next() bool {
	if c.pos+1 >= len(c.rows) {
		c.pos = len(c.rows)
		return false
	}

	c.pos++

	return true
}

// Row returns the current row.
func (c *RowsCursor) Row() (Row, error) {
	return c.rows[c.pos], nil
}

// Err always returns nil.
func (c *RowsCursor) Err() error {
	return nil
}
