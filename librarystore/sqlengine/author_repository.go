package sqlengine

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/relational-library-store-go/library"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
)

const (
	actionReadAuthors  = "read authors"
	actionReadAuthor   = "read author"
	actionCreateAuthor = "create author"
	actionDeleteAuthor = "delete author"
)

// AuthorRepository provides single-table CRUD for authors.
type AuthorRepository struct {
	store *Store
}

func (r AuthorRepository) selectAuthors() *goqu.SelectDataset {
	return r.store.dialect.From(tableAuthor).Select(
		goqu.C(colID).As(resAuthorID),
		goqu.C(colName).As(resAuthorName),
		goqu.C(colNationality).As(resAuthorNationality),
	).Prepared(true)
}

func authorMapping() librarystore.RowMapping[library.AuthorID, library.Author] {
	return librarystore.RowMapping[library.AuthorID, library.Author]{
		KeyOf: func(row librarystore.Row) (library.AuthorID, error) {
			return row.GetInt(resAuthorID)
		},
		BuildRoot: func(row librarystore.Row) (*library.Author, error) {
			author, err := readAuthor(row)
			if err != nil {
				return nil, err
			}

			return &author, nil
		},
	}
}

// ReadAll returns all authors ordered by name.
func (r AuthorRepository) ReadAll(ctx context.Context) ([]library.Author, error) {
	query := r.selectAuthors().Order(goqu.C(colName).Asc(), goqu.C(colID).Asc())

	return materialize(ctx, r.store, actionReadAuthors, query, authorMapping())
}

// Read returns the author with the given ID; found is false if there is none.
func (r AuthorRepository) Read(ctx context.Context, id library.AuthorID) (library.Author, bool, error) {
	return materializeOne(ctx, r.store, actionReadAuthor, r.selectAuthors().Where(goqu.C(colID).Eq(id)), authorMapping())
}

// Create inserts the author and returns its generated ID.
func (r AuthorRepository) Create(ctx context.Context, author library.Author) (library.AuthorID, error) {
	insert := r.store.dialect.Insert(tableAuthor).Rows(goqu.Record{
		colName:        author.Name,
		colNationality: author.Nationality,
	}).Prepared(true)

	return r.store.insertReturningID(ctx, actionCreateAuthor, insert)
}

// Delete removes the author; it returns false if there is none.
func (r AuthorRepository) Delete(ctx context.Context, id library.AuthorID) (bool, error) {
	return r.store.execSingle(ctx, actionDeleteAuthor,
		r.store.dialect.Delete(tableAuthor).Where(goqu.C(colID).Eq(id)).Prepared(true))
}
