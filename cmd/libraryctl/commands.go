package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/AntonStoeckl/relational-library-store-go/library"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore/sqlengine"
)

const dateLayout = "2006-01-02"

var (
	errNotFound       = errors.New("not found")
	errBlocked        = errors.New("blocked by business rule")
	errUnknownCommand = errors.New("unknown command")
	errArguments      = errors.New("wrong number of arguments")
)

type command func(ctx context.Context, store *sqlengine.Store, args []string, out io.Writer) error

var commands = map[string]command{
	"books":       listBooks,
	"book":        showBook,
	"copies":      listCopies,
	"copy":        showCopy,
	"loans":       listLoans,
	"loan":        showLoan,
	"fines":       listFines,
	"fine":        showFine,
	"authors":     listAuthors,
	"categories":  listCategories,
	"users":       listUsers,
	"lend":        lend,
	"return":      returnLoan,
	"delete-loan": deleteLoan,
	"delete-book": deleteBook,
}

func execute(ctx context.Context, store *sqlengine.Store, name string, args []string, out io.Writer) error {
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownCommand, name)
	}

	return cmd(ctx, store, args, out)
}

func listBooks(ctx context.Context, store *sqlengine.Store, args []string, out io.Writer) error {
	if err := expectArgs(args, 0, 0); err != nil {
		return err
	}

	books, err := store.Books().ReadAll(ctx)
	return writeResult(out, books, err)
}

func showBook(ctx context.Context, store *sqlengine.Store, args []string, out io.Writer) error {
	if err := expectArgs(args, 1, 1); err != nil {
		return err
	}

	book, found, err := store.Books().Read(ctx, args[0])
	return writeFound(out, book, found, err)
}

func listCopies(ctx context.Context, store *sqlengine.Store, args []string, out io.Writer) error {
	if err := expectArgs(args, 0, 0); err != nil {
		return err
	}

	copies, err := store.Copies().ReadAll(ctx)
	return writeResult(out, copies, err)
}

func showCopy(ctx context.Context, store *sqlengine.Store, args []string, out io.Writer) error {
	id, err := singleID(args)
	if err != nil {
		return err
	}

	bookCopy, found, err := store.Copies().Read(ctx, id)
	return writeFound(out, bookCopy, found, err)
}

func listLoans(ctx context.Context, store *sqlengine.Store, args []string, out io.Writer) error {
	if err := expectArgs(args, 0, 0); err != nil {
		return err
	}

	loans, err := store.Loans().ReadAll(ctx)
	return writeResult(out, loans, err)
}

func showLoan(ctx context.Context, store *sqlengine.Store, args []string, out io.Writer) error {
	id, err := singleID(args)
	if err != nil {
		return err
	}

	loan, found, err := store.Loans().Read(ctx, id)
	return writeFound(out, loan, found, err)
}

func listFines(ctx context.Context, store *sqlengine.Store, args []string, out io.Writer) error {
	if err := expectArgs(args, 0, 0); err != nil {
		return err
	}

	fines, err := store.Fines().ReadAll(ctx)
	return writeResult(out, fines, err)
}

func showFine(ctx context.Context, store *sqlengine.Store, args []string, out io.Writer) error {
	id, err := singleID(args)
	if err != nil {
		return err
	}

	fine, found, err := store.Fines().Read(ctx, id)
	return writeFound(out, fine, found, err)
}

func listAuthors(ctx context.Context, store *sqlengine.Store, args []string, out io.Writer) error {
	if err := expectArgs(args, 0, 0); err != nil {
		return err
	}

	authors, err := store.Authors().ReadAll(ctx)
	return writeResult(out, authors, err)
}

func listCategories(ctx context.Context, store *sqlengine.Store, args []string, out io.Writer) error {
	if err := expectArgs(args, 0, 0); err != nil {
		return err
	}

	categories, err := store.Categories().ReadAll(ctx)
	return writeResult(out, categories, err)
}

func listUsers(ctx context.Context, store *sqlengine.Store, args []string, out io.Writer) error {
	if err := expectArgs(args, 0, 0); err != nil {
		return err
	}

	users, err := store.Users().ReadAll(ctx)
	return writeResult(out, users, err)
}

// lend <copy-id> <user-id> [date]
func lend(ctx context.Context, store *sqlengine.Store, args []string, out io.Writer) error {
	if err := expectArgs(args, 2, 3); err != nil {
		return err
	}

	copyID, err := parseID(args[0])
	if err != nil {
		return err
	}

	userID, err := parseID(args[1])
	if err != nil {
		return err
	}

	loanDate, err := optionalDate(args, 2)
	if err != nil {
		return err
	}

	ok, err := store.Loans().Create(ctx, library.BuildLoan(userID, copyID, loanDate))
	return writeOutcome(out, "lent", ok, err)
}

// return <loan-id> [date]
func returnLoan(ctx context.Context, store *sqlengine.Store, args []string, out io.Writer) error {
	if err := expectArgs(args, 1, 2); err != nil {
		return err
	}

	loanID, err := parseID(args[0])
	if err != nil {
		return err
	}

	returnDate, err := optionalDate(args, 1)
	if err != nil {
		return err
	}

	if err = loanExists(ctx, store, loanID); err != nil {
		return err
	}

	ok, err := store.Loans().Return(ctx, loanID, returnDate)
	return writeOutcome(out, "returned", ok, err)
}

func deleteLoan(ctx context.Context, store *sqlengine.Store, args []string, out io.Writer) error {
	loanID, err := singleID(args)
	if err != nil {
		return err
	}

	if err = loanExists(ctx, store, loanID); err != nil {
		return err
	}

	ok, err := store.Loans().Delete(ctx, loanID)
	return writeOutcome(out, "deleted", ok, err)
}

func deleteBook(ctx context.Context, store *sqlengine.Store, args []string, out io.Writer) error {
	if err := expectArgs(args, 1, 1); err != nil {
		return err
	}

	_, found, err := store.Books().Read(ctx, args[0])
	if err != nil {
		return err
	}

	if !found {
		return errNotFound
	}

	ok, err := store.Books().Delete(ctx, args[0])
	return writeOutcome(out, "deleted", ok, err)
}

// loanExists separates an unknown loan from a write blocked by a business rule.
func loanExists(ctx context.Context, store *sqlengine.Store, id library.LoanID) error {
	_, found, err := store.Loans().Read(ctx, id)
	if err != nil {
		return err
	}

	if !found {
		return errNotFound
	}

	return nil
}

func expectArgs(args []string, minArgs int, maxArgs int) error {
	if len(args) < minArgs || len(args) > maxArgs {
		return fmt.Errorf("%w: got %d", errArguments, len(args))
	}

	return nil
}

func singleID(args []string) (int64, error) {
	if err := expectArgs(args, 1, 1); err != nil {
		return 0, err
	}

	return parseID(args[0])
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", arg, err)
	}

	return id, nil
}

// optionalDate parses args[i] as a day, or returns today if it is absent.
func optionalDate(args []string, i int) (time.Time, error) {
	if len(args) <= i {
		return time.Now(), nil
	}

	day, err := time.Parse(dateLayout, args[i])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", args[i], err)
	}

	return day, nil
}
