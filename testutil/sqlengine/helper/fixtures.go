package helper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/relational-library-store-go/library"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore/sqlengine"
)

// UniqueISBN returns an ISBN-like natural key that is unique per call.
func UniqueISBN() library.ISBNString {
	return "978-" + uuid.NewString()[:13]
}

// GivenCategory persists a category.
func GivenCategory(t testing.TB, store *sqlengine.Store, name string) library.Category {
	category := library.BuildCategory(name)

	id, err := store.Categories().Create(context.Background(), category)
	assert.NoError(t, err, "error in arranging test data")

	category.ID = id

	return category
}

// GivenAuthor persists an author.
func GivenAuthor(t testing.TB, store *sqlengine.Store, name string) library.Author {
	author := library.BuildAuthor(name, "Brazilian")

	id, err := store.Authors().Create(context.Background(), author)
	assert.NoError(t, err, "error in arranging test data")

	author.ID = id

	return author
}

// GivenUser persists a user.
func GivenUser(t testing.TB, store *sqlengine.Store, name string) library.User {
	user := library.BuildUser(name, name+"@library.test", "+55 35 3471-9200", "student")

	id, err := store.Users().Create(context.Background(), user)
	assert.NoError(t, err, "error in arranging test data")

	user.ID = id

	return user
}

// GivenBook persists a book with a unique ISBN in the category, written by the authors.
func GivenBook(t testing.TB, store *sqlengine.Store, title string, category library.Category, authors ...library.Author) library.Book {
	book := library.BuildBook(UniqueISBN(), title, 1990, category, authors...)

	created, err := store.Books().Create(context.Background(), book)
	assert.NoError(t, err, "error in arranging test data")
	assert.True(t, created, "error in arranging test data")

	return book
}

// GivenCopy persists a new, available copy of the book and returns it with its generated ID.
func GivenCopy(t testing.TB, store *sqlengine.Store, isbn library.ISBNString) library.Copy {
	ctx := context.Background()

	created, err := store.Copies().Create(ctx, library.BuildCopy(isbn))
	assert.NoError(t, err, "error in arranging test data")
	assert.True(t, created, "error in arranging test data")

	copies, err := store.Copies().ReadAll(ctx)
	assert.NoError(t, err, "error in arranging test data")

	var newest library.Copy
	for _, bookCopy := range copies {
		if bookCopy.Book.ISBN == isbn && bookCopy.ID > newest.ID {
			newest = bookCopy
		}
	}

	assert.NotZero(t, newest.ID, "error in arranging test data")

	return newest
}

// GivenOpenLoan lends the copy to the user and returns the persisted loan.
func GivenOpenLoan(t testing.TB, store *sqlengine.Store, user library.User, bookCopy library.Copy, loanDate time.Time) library.Loan {
	ctx := context.Background()

	created, err := store.Loans().Create(ctx, library.BuildLoan(user.ID, bookCopy.ID, loanDate))
	assert.NoError(t, err, "error in arranging test data")
	assert.True(t, created, "error in arranging test data")

	loans, err := store.Loans().ReadAll(ctx)
	assert.NoError(t, err, "error in arranging test data")

	for _, loan := range loans {
		if loan.Copy.ID == bookCopy.ID && loan.IsOpen() {
			return loan
		}
	}

	assert.Fail(t, "error in arranging test data: open loan not found")

	return library.Loan{}
}

// GivenFine charges a fine against the loan and returns it with its generated ID.
func GivenFine(t testing.TB, store *sqlengine.Store, loan library.Loan, amount float64, interest float64) library.Fine {
	ctx := context.Background()

	created, err := store.Fines().Create(ctx, library.BuildFine(loan.ID, amount, interest))
	assert.NoError(t, err, "error in arranging test data")
	assert.True(t, created, "error in arranging test data")

	fines, err := store.Fines().ReadAll(ctx)
	assert.NoError(t, err, "error in arranging test data")

	var newest library.Fine
	for _, fine := range fines {
		if fine.Loan.ID == loan.ID && fine.ID > newest.ID {
			newest = fine
		}
	}

	assert.NotZero(t, newest.ID, "error in arranging test data")

	return newest
}
