package sqlengine

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/relational-library-store-go/library"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
)

const (
	actionReadCopies = "read copies"
	actionReadCopy   = "read copy"
	actionCreateCopy = "create copy"
	actionDeleteCopy = "delete copy"
)

// CopyRepository reads and writes Copy aggregates (copy, book, category, authors).
type CopyRepository struct {
	store *Store
}

func copyMapping() librarystore.RowMapping[library.CopyID, library.Copy] {
	return librarystore.RowMapping[library.CopyID, library.Copy]{
		KeyOf: func(row librarystore.Row) (library.CopyID, error) {
			return row.GetInt(resCopyID)
		},
		BuildRoot: func(row librarystore.Row) (*library.Copy, error) {
			book, err := readBook(row)
			if err != nil {
				return nil, err
			}

			bookCopy, err := readCopy(row, book)
			if err != nil {
				return nil, err
			}

			return &bookCopy, nil
		},
		AttachChild: func(bookCopy *library.Copy, row librarystore.Row) error {
			return attachAuthor(&bookCopy.Book, row)
		},
	}
}

// ReadAll returns all copies ordered by ID.
func (r CopyRepository) ReadAll(ctx context.Context) ([]library.Copy, error) {
	query := r.store.selectCopies().Order(col(aliasCopy, colID).Asc(), col(aliasAuthor, colName).Asc())

	return materialize(ctx, r.store, actionReadCopies, query, copyMapping())
}

// Read returns the copy with the given ID; found is false if there is none.
func (r CopyRepository) Read(ctx context.Context, id library.CopyID) (library.Copy, bool, error) {
	query := r.store.selectCopies().
		Where(col(aliasCopy, colID).Eq(id)).
		Order(col(aliasAuthor, colName).Asc())

	return materializeOne(ctx, r.store, actionReadCopy, query, copyMapping())
}

// Create adds a new copy of the copy's book. New copies are always available.
func (r CopyRepository) Create(ctx context.Context, bookCopy library.Copy) (bool, error) {
	insert := r.store.dialect.Insert(tableCopy).Rows(goqu.Record{
		colBookISBN: bookCopy.Book.ISBN,
		colOnLoan:   false,
	}).Prepared(true)

	return r.store.execSingle(ctx, actionCreateCopy, insert)
}

// Delete removes the copy; it returns false if there is none.
func (r CopyRepository) Delete(ctx context.Context, id library.CopyID) (bool, error) {
	del := r.store.dialect.Delete(tableCopy).Where(goqu.C(colID).Eq(id)).Prepared(true)

	return r.store.execSingle(ctx, actionDeleteCopy, del)
}
