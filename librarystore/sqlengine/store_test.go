package sqlengine_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/relational-library-store-go/config"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore/sqlengine"
	. "github.com/AntonStoeckl/relational-library-store-go/testutil/sqlengine/helper/storewrapper" //nolint:revive
)

type failingProvider struct {
	acquireCalls int
}

func (p *failingProvider) Acquire(context.Context) (*sqlengine.Connection, error) {
	p.acquireCalls++
	return nil, errors.Join(librarystore.ErrConnection, errors.New("connection refused"))
}

func (p *failingProvider) Release(*sqlengine.Connection) error {
	return nil
}

func Test_FactoryFunctions_NewStore_ShouldFail_WithNilDatabaseConnection(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name        string
		factoryFunc func() (*sqlengine.Store, error)
	}{
		{
			name:        "NewStoreFromPGXPool with nil",
			factoryFunc: func() (*sqlengine.Store, error) { return sqlengine.NewStoreFromPGXPool(ctx, nil) },
		},
		{
			name:        "NewStoreFromSQLDB with nil",
			factoryFunc: func() (*sqlengine.Store, error) { return sqlengine.NewStoreFromSQLDB(ctx, nil) },
		},
		{
			name:        "NewStoreFromSQLX with nil",
			factoryFunc: func() (*sqlengine.Store, error) { return sqlengine.NewStoreFromSQLX(ctx, nil) },
		},
		{
			name:        "NewStore with nil provider",
			factoryFunc: func() (*sqlengine.Store, error) { return sqlengine.NewStore(ctx, nil) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store, err := tc.factoryFunc()

			assert.Nil(t, store)
			assert.ErrorIs(t, err, librarystore.ErrNilDatabaseConnection)
		})
	}
}

func Test_FactoryFunctions_NewStore_ShouldFail_WithInvalidDialect(t *testing.T) {
	// setup
	provider := &failingProvider{}

	// act
	_, emptyErr := sqlengine.NewStore(context.Background(), provider, sqlengine.WithDialect(""))
	_, unknownErr := sqlengine.NewStore(context.Background(), provider, sqlengine.WithDialect("oracle"))

	// assert
	assert.ErrorIs(t, emptyErr, librarystore.ErrEmptyDialect)
	assert.ErrorContains(t, unknownErr, "oracle")
	assert.Zero(t, provider.acquireCalls, "options must be validated before a connection is acquired")
}

func Test_FactoryFunctions_NewStore_ShouldFail_WhenNoConnectionCanBeAcquired(t *testing.T) {
	// setup
	ctx := context.Background()
	db, err := config.SQLiteDB(ctx, filepath.Join(t.TempDir(), "library.db"))
	assert.NoError(t, err, "error opening DB in test setup")
	_ = db.Close()

	// act
	store, err := sqlengine.NewStoreFromSQLDB(ctx, db, sqlengine.WithDialect(sqlengine.DialectSQLite))

	// assert
	assert.Nil(t, store)
	assert.ErrorIs(t, err, librarystore.ErrConnection)
	assert.ErrorIs(t, err, librarystore.ErrDataAccess)
}

func Test_FactoryFunctions_NewStore_ShouldPropagate_ProviderErrors(t *testing.T) {
	// act
	_, err := sqlengine.NewStore(context.Background(), &failingProvider{})

	// assert
	assert.ErrorIs(t, err, librarystore.ErrConnection)
}

func Test_FactoryFunctions_NewStore_ShouldPanic_WithUnsupportedAdapterType(t *testing.T) {
	assert.Panics(t, func() {
		wrapper := CreateWrapper(t, "unsupported")
		wrapper.Close()
	})
}

func Test_Store_StartsInAutoCommitMode_AndCloseIsIdempotent(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	// assert
	assert.True(t, store.AutoCommit())

	// act
	store.Close()
	store.Close()
	_, err := store.Books().ReadAll(ctxWithTimeout)

	// assert
	assert.False(t, store.AutoCommit())
	assert.ErrorIs(t, err, librarystore.ErrConnection)
}
