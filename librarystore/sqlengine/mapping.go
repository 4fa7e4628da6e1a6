package sqlengine

import (
	"github.com/AntonStoeckl/relational-library-store-go/library"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
)

// The read* helpers build one entity out of the aliased columns of a join row.

func readCategory(row librarystore.Row) (library.Category, error) {
	id, err := row.GetInt(resCategoryID)
	if err != nil {
		return library.Category{}, err
	}

	name, err := row.GetString(resCategoryName)
	if err != nil {
		return library.Category{}, err
	}

	return library.Category{ID: id, Name: name}, nil
}

func readAuthor(row librarystore.Row) (library.Author, error) {
	id, err := row.GetInt(resAuthorID)
	if err != nil {
		return library.Author{}, err
	}

	name, err := row.GetString(resAuthorName)
	if err != nil {
		return library.Author{}, err
	}

	nationality, err := row.GetString(resAuthorNationality)
	if err != nil {
		return library.Author{}, err
	}

	return library.Author{ID: id, Name: name, Nationality: nationality}, nil
}

// readBook builds a book with category and copy count but without authors.
func readBook(row librarystore.Row) (library.Book, error) {
	book, err := readPartialBook(row)
	if err != nil {
		return library.Book{}, err
	}

	year, err := row.GetInt(resBookYear)
	if err != nil {
		return library.Book{}, err
	}

	copyCount, err := row.GetInt(resBookCopyCount)
	if err != nil {
		return library.Book{}, err
	}

	category, err := readCategory(row)
	if err != nil {
		return library.Book{}, err
	}

	book.PublicationYear = int(year)
	book.CopyCount = int(copyCount)
	book.Category = category

	return book, nil
}

// readPartialBook builds the ISBN and title part of a book, as embedded in loans.
func readPartialBook(row librarystore.Row) (library.Book, error) {
	isbn, err := row.GetString(resBookISBN)
	if err != nil {
		return library.Book{}, err
	}

	title, err := row.GetString(resBookTitle)
	if err != nil {
		return library.Book{}, err
	}

	return library.Book{ISBN: isbn, Title: title, Authors: make([]library.Author, 0)}, nil
}

// attachAuthor adds the row's author to the book. The NULL side of the author join reads as
// author id 0 and is skipped, as are repeated authors. Missing author columns are an error.
func attachAuthor(book *library.Book, row librarystore.Row) error {
	author, err := readAuthor(row)
	if err != nil {
		return err
	}

	book.Authors, _ = librarystore.AppendUnique(book.Authors, author, authorIdentity)

	return nil
}

func authorIdentity(author library.Author) library.AuthorID {
	return author.ID
}

func readCopy(row librarystore.Row, book library.Book) (library.Copy, error) {
	id, err := row.GetInt(resCopyID)
	if err != nil {
		return library.Copy{}, err
	}

	onLoan, err := row.GetBool(resCopyOnLoan)
	if err != nil {
		return library.Copy{}, err
	}

	return library.Copy{ID: id, Book: book, OnLoan: onLoan}, nil
}

func readUser(row librarystore.Row) (library.User, error) {
	id, err := row.GetInt(resUserID)
	if err != nil {
		return library.User{}, err
	}

	fields := make([]string, 4)
	for i, column := range []string{resUserName, resUserEmail, resUserPhone, resUserRole} {
		if fields[i], err = row.GetString(column); err != nil {
			return library.User{}, err
		}
	}

	return library.User{ID: id, Name: fields[0], Email: fields[1], Phone: fields[2], Role: fields[3]}, nil
}

func readLoan(row librarystore.Row) (library.Loan, error) {
	id, err := row.GetInt(resLoanID)
	if err != nil {
		return library.Loan{}, err
	}

	loanDate, err := row.GetDate(resLoanDate)
	if err != nil {
		return library.Loan{}, err
	}

	returnDate, err := row.GetNullableDate(resLoanReturnDate)
	if err != nil {
		return library.Loan{}, err
	}

	user, err := readUser(row)
	if err != nil {
		return library.Loan{}, err
	}

	book, err := readPartialBook(row)
	if err != nil {
		return library.Loan{}, err
	}

	bookCopy, err := readCopy(row, book)
	if err != nil {
		return library.Loan{}, err
	}

	loan := library.Loan{ID: id, LoanDate: library.ToDate(loanDate), User: user, Copy: bookCopy}
	if returnDate != nil {
		day := library.ToDate(*returnDate)
		loan.ReturnDate = &day
	}

	return loan, nil
}

func readFine(row librarystore.Row) (library.Fine, error) {
	id, err := row.GetInt(resFineID)
	if err != nil {
		return library.Fine{}, err
	}

	amount, err := row.GetFloat(resFineAmount)
	if err != nil {
		return library.Fine{}, err
	}

	interest, err := row.GetFloat(resFineInterest)
	if err != nil {
		return library.Fine{}, err
	}

	loan, err := readLoan(row)
	if err != nil {
		return library.Fine{}, err
	}

	return library.Fine{ID: id, Amount: amount, Interest: interest, Loan: loan}, nil
}
