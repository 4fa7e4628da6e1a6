package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strconv"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/relational-library-store-go/config"
	"github.com/AntonStoeckl/relational-library-store-go/library"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore/sqlengine"
	. "github.com/AntonStoeckl/relational-library-store-go/testutil/sqlengine/helper" //nolint:revive
)

type fixture struct {
	path     string
	book     library.Book
	bookCopy library.Copy
	user     library.User
}

// givenLibraryFile creates a SQLite library with one book, one available copy and one user.
func givenLibraryFile(t *testing.T) fixture {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "library.db")

	db, err := config.SQLiteDB(ctx, path)
	assert.NoError(t, err, "error opening DB in test setup")
	defer func() { _ = db.Close() }()

	assert.NoError(t, ApplySchema(ctx, sqlengine.DialectSQLite, func(ctx context.Context, statement string) error {
		_, execErr := db.ExecContext(ctx, statement)
		return execErr
	}))

	store, err := sqlengine.NewStoreFromSQLDB(ctx, db, sqlengine.WithDialect(sqlengine.DialectSQLite))
	assert.NoError(t, err, "error creating library store")
	defer store.Close()

	book := GivenBook(t, store, "Os Sertões", GivenCategory(t, store, "History"), GivenAuthor(t, store, "Cunha"))

	return fixture{
		path:     path,
		book:     book,
		bookCopy: GivenCopy(t, store, book.ISBN),
		user:     GivenUser(t, store, "Antônio"),
	}
}

func runCLI(fx fixture, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer

	allArgs := append([]string{"-adapter", config.AdapterSQLite, "-sqlite", fx.path}, args...)
	code := run(context.Background(), allArgs, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func Test_Run_Books_WritesJSON(t *testing.T) {
	// setup
	fx := givenLibraryFile(t)

	// act
	code, stdout, _ := runCLI(fx, "books")

	// assert
	assert.Equal(t, exitOK, code)

	var books []library.Book
	assert.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(stdout, &books))
	assert.Len(t, books, 1)
	assert.Equal(t, fx.book.ISBN, books[0].ISBN)
	assert.Equal(t, 1, books[0].CopyCount)
	assert.Len(t, books[0].Authors, 1)
}

func Test_Run_Book_When_ISBNIsUnknown_ReportsNotFound(t *testing.T) {
	// setup
	fx := givenLibraryFile(t)

	// act
	code, stdout, stderr := runCLI(fx, "book", "978-0000000000")

	// assert
	assert.Equal(t, exitNotFound, code)
	assert.Empty(t, stdout)
	assert.Equal(t, msgNotFound+"\n", stderr)
}

func Test_Run_LendTwice_ReportsBlockedByBusinessRule(t *testing.T) {
	// setup
	fx := givenLibraryFile(t)

	// act
	firstCode, firstOut, _ := runCLI(fx, "lend", id(fx.bookCopy.ID), id(fx.user.ID), "2024-03-01")
	secondCode, _, secondErr := runCLI(fx, "lend", id(fx.bookCopy.ID), id(fx.user.ID))

	// assert
	assert.Equal(t, exitOK, firstCode)
	assert.Contains(t, firstOut, `"lent": true`)
	assert.Equal(t, exitBlocked, secondCode)
	assert.Equal(t, msgBlocked+"\n", secondErr)
}

func Test_Run_LendAndReturn_ReleasesTheCopy(t *testing.T) {
	// setup
	fx := givenLibraryFile(t)

	// arrange
	code, _, _ := runCLI(fx, "lend", id(fx.bookCopy.ID), id(fx.user.ID), "2024-03-01")
	assert.Equal(t, exitOK, code, "error in arranging test data")

	_, loansOut, _ := runCLI(fx, "loans")
	var loans []library.Loan
	assert.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(loansOut, &loans))
	assert.Len(t, loans, 1)

	// act
	returnCode, _, _ := runCLI(fx, "return", id(loans[0].ID), "2024-03-08")
	_, copyOut, _ := runCLI(fx, "copy", id(fx.bookCopy.ID))

	// assert
	assert.Equal(t, exitOK, returnCode)

	var bookCopy library.Copy
	assert.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(copyOut, &bookCopy))
	assert.False(t, bookCopy.OnLoan)
}

func Test_Run_DeleteBook_When_CopyHasLoanHistory_ReportsDatabaseError(t *testing.T) {
	// setup
	fx := givenLibraryFile(t)

	// arrange
	code, _, _ := runCLI(fx, "lend", id(fx.bookCopy.ID), id(fx.user.ID))
	assert.Equal(t, exitOK, code, "error in arranging test data")

	// act
	deleteCode, _, stderr := runCLI(fx, "delete-book", fx.book.ISBN)

	// assert
	assert.Equal(t, exitDatabaseError, deleteCode)
	assert.Contains(t, stderr, msgDatabaseError+": ")
}

func Test_Run_Writes_When_TargetIsUnknown_ReportNotFound(t *testing.T) {
	// setup
	fx := givenLibraryFile(t)

	testCases := []struct {
		name string
		args []string
	}{
		{name: "delete-book", args: []string{"delete-book", "978-0000000000"}},
		{name: "delete-loan", args: []string{"delete-loan", "999"}},
		{name: "return", args: []string{"return", "999", "2024-03-08"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			code, stdout, stderr := runCLI(fx, tc.args...)

			// assert
			assert.Equal(t, exitNotFound, code)
			assert.Empty(t, stdout)
			assert.Equal(t, msgNotFound+"\n", stderr)
		})
	}

	_, booksOut, _ := runCLI(fx, "books")
	assert.Contains(t, booksOut, fx.book.ISBN)
}

func Test_Run_ReturnTwice_ReportsBlockedByBusinessRule(t *testing.T) {
	// setup
	fx := givenLibraryFile(t)

	// arrange
	code, _, _ := runCLI(fx, "lend", id(fx.bookCopy.ID), id(fx.user.ID), "2024-03-01")
	assert.Equal(t, exitOK, code, "error in arranging test data")

	_, loansOut, _ := runCLI(fx, "loans")
	var loans []library.Loan
	assert.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(loansOut, &loans))
	assert.Len(t, loans, 1)

	// act
	firstCode, _, _ := runCLI(fx, "return", id(loans[0].ID), "2024-03-08")
	secondCode, _, secondErr := runCLI(fx, "return", id(loans[0].ID), "2024-03-09")

	// assert
	assert.Equal(t, exitOK, firstCode)
	assert.Equal(t, exitBlocked, secondCode)
	assert.Equal(t, msgBlocked+"\n", secondErr)
}

func Test_Run_When_ArgumentsAreInvalid_ReportsUsage(t *testing.T) {
	// setup
	fx := givenLibraryFile(t)

	testCases := []struct {
		name string
		args []string
	}{
		{name: "no command", args: nil},
		{name: "unknown command", args: []string{"shelves"}},
		{name: "missing argument", args: []string{"lend", "1"}},
		{name: "invalid id", args: []string{"loan", "first"}},
		{name: "invalid date", args: []string{"return", "1", "01.03.2024"}},
		{name: "unknown flag", args: []string{"-verbose", "books"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, _ := runCLI(fx, tc.args...)

			assert.Equal(t, exitUsage, code)
		})
	}
}

func Test_Run_When_AdapterIsUnsupported_ReportsUsage(t *testing.T) {
	// act
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-adapter", "oracle", "books"}, &stdout, &stderr)

	// assert
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), "oracle")
}

func Test_Run_WithMetrics_WritesPrometheusText(t *testing.T) {
	// setup
	fx := givenLibraryFile(t)

	// act
	code, _, stderr := runCLI(fx, "-metrics", "books")

	// assert
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, `librarystore_query_duration_seconds_count{operation="read books",status="success"} 1`)
}
