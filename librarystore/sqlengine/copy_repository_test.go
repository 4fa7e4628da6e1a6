package sqlengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/relational-library-store-go/library"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
	. "github.com/AntonStoeckl/relational-library-store-go/testutil/sqlengine/helper"              //nolint:revive
	. "github.com/AntonStoeckl/relational-library-store-go/testutil/sqlengine/helper/storewrapper" //nolint:revive
)

func Test_Copies_Read_MaterializesBookWithAuthors(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	// arrange
	category := GivenCategory(t, store, "Modernism")
	andrade := GivenAuthor(t, store, "Andrade")
	bopp := GivenAuthor(t, store, "Bopp")
	book := GivenBook(t, store, "Macunaíma", category, bopp, andrade)
	bookCopy := GivenCopy(t, store, book.ISBN)

	// act
	found, ok, err := store.Copies().Read(ctxWithTimeout, bookCopy.ID)

	// assert
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, bookCopy.ID, found.ID)
	assert.False(t, found.OnLoan, "a new copy is available")
	assert.Equal(t, book.ISBN, found.Book.ISBN)
	assert.Equal(t, category, found.Book.Category)
	assert.Equal(t, []library.Author{andrade, bopp}, found.Book.Authors)
	assert.Equal(t, 1, found.Book.CopyCount)
}

func Test_Copies_ReadAll_ReturnsEachCopyOnce_OrderedByID(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	// arrange
	category := GivenCategory(t, store, "Crônica")
	authors := []library.Author{GivenAuthor(t, store, "Braga"), GivenAuthor(t, store, "Sabino")}
	first := GivenBook(t, store, "Ai de ti", category, authors...)
	second := GivenBook(t, store, "O Encontro Marcado", category, authors[1])
	copyA := GivenCopy(t, store, first.ISBN)
	copyB := GivenCopy(t, store, second.ISBN)
	copyC := GivenCopy(t, store, first.ISBN)

	// act
	copies, err := store.Copies().ReadAll(ctxWithTimeout)

	// assert
	assert.NoError(t, err)
	assert.Len(t, copies, 3)
	assert.Equal(t, []library.CopyID{copyA.ID, copyB.ID, copyC.ID}, []library.CopyID{copies[0].ID, copies[1].ID, copies[2].ID})
	assert.Len(t, copies[0].Book.Authors, 2)
	assert.Len(t, copies[1].Book.Authors, 1)
	assert.Equal(t, 2, copies[2].Book.CopyCount)
}

func Test_Copies_Read_When_CopyDoesNotExist_ReportsNotFound(t *testing.T) {
	// setup
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()

	// act
	_, ok, err := wrapper.GetStore().Copies().Read(context.Background(), 4711)

	// assert
	assert.NoError(t, err)
	assert.False(t, ok)
}

func Test_Copies_Create_When_BookDoesNotExist_Fails(t *testing.T) {
	// setup
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()

	// act
	created, err := wrapper.GetStore().Copies().Create(context.Background(), library.BuildCopy(UniqueISBN()))

	// assert
	assert.False(t, created)
	assert.ErrorIs(t, err, librarystore.ErrDataAccess)
	assert.Zero(t, CountRows(t, wrapper, "book_copy"))
}

func Test_Copies_Delete_RemovesOnlyTheCopy(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	// arrange
	book := GivenBook(t, store, "Sagarana", GivenCategory(t, store, "Short stories"))
	bookCopy := GivenCopy(t, store, book.ISBN)

	// act
	deleted, err := store.Copies().Delete(ctxWithTimeout, bookCopy.ID)
	deletedAgain, errAgain := store.Copies().Delete(ctxWithTimeout, bookCopy.ID)

	// assert
	assert.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, errAgain)
	assert.False(t, deletedAgain)
	assert.Equal(t, 1, CountRows(t, wrapper, "book"))
}
