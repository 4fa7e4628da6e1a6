package sqlengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/relational-library-store-go/config"
	"github.com/AntonStoeckl/relational-library-store-go/library"
	. "github.com/AntonStoeckl/relational-library-store-go/testutil/sqlengine/helper"              //nolint:revive
	. "github.com/AntonStoeckl/relational-library-store-go/testutil/sqlengine/helper/storewrapper" //nolint:revive
)

// The remaining tests run against the adapter selected by ADAPTER_TYPE; these pin both SQLite adapters.
func Test_Adapters_SQLite_LendAndReturnRoundTrip(t *testing.T) {
	for _, adapterType := range []string{config.AdapterSQLite, config.AdapterSQLiteSQLX} {
		t.Run(adapterType, func(t *testing.T) {
			// setup
			ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			wrapper := CreateWrapper(t, adapterType)
			defer wrapper.Close()
			store := wrapper.GetStore()

			// arrange
			author := GivenAuthor(t, store, "Graciliano")
			book := GivenBook(t, store, "São Bernardo", GivenCategory(t, store, "Novels"), author, author)
			bookCopy := GivenCopy(t, store, book.ISBN)
			user := GivenUser(t, store, "Madalena")

			// act
			lent, lendErr := store.Loans().Create(ctxWithTimeout, library.BuildLoan(user.ID, bookCopy.ID, march1))
			loans, readErr := store.Loans().ReadAll(ctxWithTimeout)
			assert.NoError(t, readErr)
			assert.Len(t, loans, 1)
			returned, returnErr := store.Loans().Return(ctxWithTimeout, loans[0].ID, march8)

			// assert
			assert.NoError(t, lendErr)
			assert.True(t, lent)
			assert.NoError(t, returnErr)
			assert.True(t, returned)

			found, ok, err := store.Copies().Read(ctxWithTimeout, bookCopy.ID)
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.False(t, found.OnLoan)
			assert.Equal(t, []library.Author{author}, found.Book.Authors)
			assert.True(t, store.AutoCommit())
		})
	}
}
