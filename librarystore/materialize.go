package librarystore

import (
	"errors"
)

// RowMapping describes how a denormalized join result is folded into aggregates.
//
// KeyOf extracts the root's identity from a row. BuildRoot constructs the root from the
// first row carrying a new key. AttachChild adds the row's child part to its root; it is
// optional for queries that return exactly one row per root.
type RowMapping[K comparable, T any] struct {
	KeyOf       func(row Row) (K, error)
	BuildRoot   func(row Row) (*T, error)
	AttachChild func(root *T, row Row) error
}

// Materialize consumes the cursor once and returns one aggregate per distinct key,
// in the order in which each key first appeared. Zero rows yield an empty, non-nil slice.
func Materialize[K comparable, T any](cursor Cursor, mapping RowMapping[K, T]) ([]T, error) {
	if mapping.KeyOf == nil || mapping.BuildRoot == nil {
		return nil, ErrIncompleteRowMapping
	}

	roots := make(map[K]*T)
	order := make([]K, 0)

	for cursor.Next() {
		row, err := cursor.Row()
		if err != nil {
			return nil, err
		}

		key, err := mapping.KeyOf(row)
		if err != nil {
			return nil, err
		}

		root, seen := roots[key]
		if !seen {
			root, err = mapping.BuildRoot(row)
			if err != nil {
				return nil, err
			}

			if root == nil {
				return nil, ErrNilRoot
			}

			roots[key] = root
			order = append(order, key)
		}

		if mapping.AttachChild == nil {
			continue
		}

		if err = mapping.AttachChild(root, row); err != nil {
			return nil, err
		}
	}

	if err := cursor.Err(); err != nil {
		return nil, errors.Join(ErrDataAccess, err)
	}

	aggregates := make([]T, 0, len(order))
	for _, key := range order {
		aggregates = append(aggregates, *roots[key])
	}

	return aggregates, nil
}

// AppendUnique appends child unless a child with the same identity is already present.
// Zero identities are treated as "no child" (the NULL side of a LEFT JOIN) and skipped.
// It reports whether the child was appended.
func AppendUnique[C any, ID comparable](children []C, child C, identity func(C) ID) ([]C, bool) {
	var zero ID

	id := identity(child)
	if id == zero {
		return children, false
	}

	for _, existing := range children {
		if identity(existing) == id {
			return children, false
		}
	}

	return append(children, child), true
}
