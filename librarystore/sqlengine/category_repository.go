package sqlengine

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/relational-library-store-go/library"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
)

const (
	actionReadCategories = "read categories"
	actionReadCategory   = "read category"
	actionCreateCategory = "create category"
	actionDeleteCategory = "delete category"
)

// CategoryRepository provides single-table CRUD for categories.
type CategoryRepository struct {
	store *Store
}

func (r CategoryRepository) selectCategories() *goqu.SelectDataset {
	return r.store.dialect.From(tableCategory).Select(
		goqu.C(colID).As(resCategoryID),
		goqu.C(colName).As(resCategoryName),
	).Prepared(true)
}

func categoryMapping() librarystore.RowMapping[library.CategoryID, library.Category] {
	return librarystore.RowMapping[library.CategoryID, library.Category]{
		KeyOf: func(row librarystore.Row) (library.CategoryID, error) {
			return row.GetInt(resCategoryID)
		},
		BuildRoot: func(row librarystore.Row) (*library.Category, error) {
			category, err := readCategory(row)
			if err != nil {
				return nil, err
			}

			return &category, nil
		},
	}
}

// ReadAll returns all categories ordered by name.
func (r CategoryRepository) ReadAll(ctx context.Context) ([]library.Category, error) {
	query := r.selectCategories().Order(goqu.C(colName).Asc(), goqu.C(colID).Asc())

	return materialize(ctx, r.store, actionReadCategories, query, categoryMapping())
}

// Read returns the category with the given ID; found is false if there is none.
func (r CategoryRepository) Read(ctx context.Context, id library.CategoryID) (library.Category, bool, error) {
	query := r.selectCategories().Where(goqu.C(colID).Eq(id))

	return materializeOne(ctx, r.store, actionReadCategory, query, categoryMapping())
}

// Create inserts the category and returns its generated ID.
func (r CategoryRepository) Create(ctx context.Context, category library.Category) (library.CategoryID, error) {
	insert := r.store.dialect.Insert(tableCategory).Rows(goqu.Record{colName: category.Name}).Prepared(true)

	return r.store.insertReturningID(ctx, actionCreateCategory, insert)
}

// Delete removes the category; it returns false if there is none.
func (r CategoryRepository) Delete(ctx context.Context, id library.CategoryID) (bool, error) {
	return r.store.execSingle(ctx, actionDeleteCategory,
		r.store.dialect.Delete(tableCategory).Where(goqu.C(colID).Eq(id)).Prepared(true))
}
