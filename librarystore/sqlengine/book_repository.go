package sqlengine

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/relational-library-store-go/library"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
)

const (
	actionReadBooks  = "read books"
	actionReadBook   = "read book"
	planCreateBook   = "create book"
	planDeleteBook   = "delete book"
	stepInsertBook   = "insert book"
	stepLinkAuthor   = "link author"
	stepDeleteCopies = "delete copies"
	stepUnlinkAuthor = "unlink authors"
	stepDeleteBook   = "delete book"
)

// BookRepository reads and writes Book aggregates (book, category, authors, copy count).
type BookRepository struct {
	store *Store
}

func bookMapping() librarystore.RowMapping[library.ISBNString, library.Book] {
	return librarystore.RowMapping[library.ISBNString, library.Book]{
		KeyOf: func(row librarystore.Row) (library.ISBNString, error) {
			return row.GetString(resBookISBN)
		},
		BuildRoot: func(row librarystore.Row) (*library.Book, error) {
			book, err := readBook(row)
			if err != nil {
				return nil, err
			}

			return &book, nil
		},
		AttachChild: attachAuthor,
	}
}

// ReadAll returns all books ordered by title, each with its authors ordered by name.
func (r BookRepository) ReadAll(ctx context.Context) ([]library.Book, error) {
	query := r.store.selectBooks().Order(
		col(aliasBook, colTitle).Asc(),
		col(aliasBook, colISBN).Asc(),
		col(aliasAuthor, colName).Asc(),
	)

	return materialize(ctx, r.store, actionReadBooks, query, bookMapping())
}

// Read returns the book with the given ISBN; found is false if there is none.
func (r BookRepository) Read(ctx context.Context, isbn library.ISBNString) (library.Book, bool, error) {
	query := r.store.selectBooks().
		Where(col(aliasBook, colISBN).Eq(isbn)).
		Order(col(aliasAuthor, colName).Asc())

	return materializeOne(ctx, r.store, actionReadBook, query, bookMapping())
}

// Create inserts the book row and one author association per distinct author, all or nothing.
// The book's CopyCount is ignored.
func (r BookRepository) Create(ctx context.Context, book library.Book) (bool, error) {
	d := r.store.dialect

	steps := []librarystore.Step{
		librarystore.RequiredExecStep(stepInsertBook, fixed(d.Insert(tableBook).Rows(goqu.Record{
			colISBN:            book.ISBN,
			colTitle:           book.Title,
			colPublicationYear: book.PublicationYear,
			colCategoryID:      book.Category.ID,
		}).Prepared(true))),
	}

	authors := make([]library.Author, 0, len(book.Authors))
	for _, author := range book.Authors {
		authors, _ = librarystore.AppendUnique(authors, author, authorIdentity)
	}

	for _, author := range authors {
		steps = append(steps, librarystore.RequiredExecStep(stepLinkAuthor, fixed(d.Insert(tableBookAuthor).Rows(goqu.Record{
			colBookISBN: book.ISBN,
			colAuthorID: author.ID,
		}).Prepared(true))))
	}

	return r.store.RunTransaction(ctx, librarystore.BuildWritePlan(planCreateBook, steps...))
}

// Delete removes the book together with its copies and author associations.
// It returns false if no book with the ISBN exists.
func (r BookRepository) Delete(ctx context.Context, isbn library.ISBNString) (bool, error) {
	d := r.store.dialect

	plan := librarystore.BuildWritePlan(planDeleteBook,
		librarystore.ExecStep(stepDeleteCopies,
			fixed(d.Delete(tableCopy).Where(goqu.C(colBookISBN).Eq(isbn)).Prepared(true))),
		librarystore.ExecStep(stepUnlinkAuthor,
			fixed(d.Delete(tableBookAuthor).Where(goqu.C(colBookISBN).Eq(isbn)).Prepared(true))),
		librarystore.RequiredExecStep(stepDeleteBook,
			fixed(d.Delete(tableBook).Where(goqu.C(colISBN).Eq(isbn)).Prepared(true))),
	)

	return r.store.RunTransaction(ctx, plan)
}
