package sqlengine

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
)

func bookRowValues() map[string]any {
	return map[string]any{
		resBookISBN:          "978-1",
		resBookTitle:         "Dune",
		resBookYear:          int64(1965),
		resBookCopyCount:     int64(2),
		resCategoryID:        int64(1),
		resCategoryName:      "Science Fiction",
		resAuthorID:          int64(7),
		resAuthorName:        "Frank Herbert",
		resAuthorNationality: "US",
	}
}

func copyRowValues() map[string]any {
	values := bookRowValues()
	values[resCopyID] = int64(11)
	values[resCopyOnLoan] = int64(0)

	return values
}

func withoutAuthorColumns(values map[string]any) map[string]any {
	trimmed := maps.Clone(values)
	delete(trimmed, resAuthorID)
	delete(trimmed, resAuthorName)
	delete(trimmed, resAuthorNationality)

	return trimmed
}

func withNullAuthor(values map[string]any) map[string]any {
	nulled := maps.Clone(values)
	nulled[resAuthorID] = nil
	nulled[resAuthorName] = nil
	nulled[resAuthorNationality] = nil

	return nulled
}

func Test_BookMapping_When_AuthorColumnsAreMissing(t *testing.T) {
	// arrange
	cursor := librarystore.NewRowsCursor(librarystore.BuildRow(withoutAuthorColumns(bookRowValues())))

	// act
	books, err := librarystore.Materialize(cursor, bookMapping())

	// assert
	assert.ErrorIs(t, err, librarystore.ErrColumnMissing)
	assert.ErrorIs(t, err, librarystore.ErrDataAccess)
	assert.Nil(t, books)
}

func Test_CopyMapping_When_AuthorColumnsAreMissing(t *testing.T) {
	// arrange
	cursor := librarystore.NewRowsCursor(librarystore.BuildRow(withoutAuthorColumns(copyRowValues())))

	// act
	copies, err := librarystore.Materialize(cursor, copyMapping())

	// assert
	assert.ErrorIs(t, err, librarystore.ErrColumnMissing)
	assert.Nil(t, copies)
}

func Test_BookMapping_When_AuthorJoinIsNull(t *testing.T) {
	// arrange
	cursor := librarystore.NewRowsCursor(librarystore.BuildRow(withNullAuthor(bookRowValues())))

	// act
	books, err := librarystore.Materialize(cursor, bookMapping())

	// assert
	assert.NoError(t, err)
	assert.Len(t, books, 1)
	assert.NotNil(t, books[0].Authors)
	assert.Empty(t, books[0].Authors)
}

func Test_CopyMapping_When_RowsRepeatTheSameAuthor(t *testing.T) {
	// arrange
	cursor := librarystore.NewRowsCursor(
		librarystore.BuildRow(copyRowValues()),
		librarystore.BuildRow(copyRowValues()),
	)

	// act
	copies, err := librarystore.Materialize(cursor, copyMapping())

	// assert
	assert.NoError(t, err)
	assert.Len(t, copies, 1)
	assert.Len(t, copies[0].Book.Authors, 1)
	assert.Equal(t, "Frank Herbert", copies[0].Book.Authors[0].Name)
}
