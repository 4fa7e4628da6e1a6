package sqlengine

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

const (
	tableAuthor     = "author"
	tableCategory   = "category"
	tableBook       = "book"
	tableBookAuthor = "book_author"
	tableCopy       = "book_copy"
	tableUser       = "library_user"
	tableLoan       = "loan"
	tableFine       = "fine"

	aliasAuthor     = "a"
	aliasCategory   = "c"
	aliasBook       = "b"
	aliasBookAuthor = "ba"
	aliasCopy       = "bc"
	aliasCopyCount  = "cc"
	aliasUser       = "u"
	aliasLoan       = "l"
	aliasFine       = "f"

	colID              = "id"
	colName            = "name"
	colNationality     = "nationality"
	colISBN            = "isbn"
	colTitle           = "title"
	colPublicationYear = "publication_year"
	colCategoryID      = "category_id"
	colBookISBN        = "book_isbn"
	colAuthorID        = "author_id"
	colOnLoan          = "on_loan"
	colEmail           = "email"
	colPhone           = "phone"
	colRole            = "role"
	colLoanDate        = "loan_date"
	colReturnDate      = "return_date"
	colUserID          = "user_id"
	colCopyID          = "copy_id"
	colAmount          = "amount"
	colInterest        = "interest"
	colLoanID          = "loan_id"

	// result column aliases of the join queries
	resBookISBN          = "book_isbn"
	resBookTitle         = "book_title"
	resBookYear          = "book_publication_year"
	resBookCopyCount     = "book_copy_count"
	resCategoryID        = "category_id"
	resCategoryName      = "category_name"
	resAuthorID          = "author_id"
	resAuthorName        = "author_name"
	resAuthorNationality = "author_nationality"
	resCopyID            = "copy_id"
	resCopyOnLoan        = "copy_on_loan"
	resUserID            = "user_id"
	resUserName          = "user_name"
	resUserEmail         = "user_email"
	resUserPhone         = "user_phone"
	resUserRole          = "user_role"
	resLoanID            = "loan_id"
	resLoanDate          = "loan_date"
	resLoanReturnDate    = "loan_return_date"
	resFineID            = "fine_id"
	resFineAmount        = "fine_amount"
	resFineInterest      = "fine_interest"
)

// col references a column of an aliased table.
func col(alias, column string) exp.IdentifierExpression {
	return goqu.T(alias).Col(column)
}

func (s *Store) bookColumns() []any {
	copyCount := s.dialect.From(goqu.T(tableCopy).As(aliasCopyCount)).
		Select(goqu.COUNT(goqu.Star())).
		Where(col(aliasCopyCount, colBookISBN).Eq(col(aliasBook, colISBN)))

	return []any{
		col(aliasBook, colISBN).As(resBookISBN),
		col(aliasBook, colTitle).As(resBookTitle),
		col(aliasBook, colPublicationYear).As(resBookYear),
		col(aliasCategory, colID).As(resCategoryID),
		col(aliasCategory, colName).As(resCategoryName),
		col(aliasAuthor, colID).As(resAuthorID),
		col(aliasAuthor, colName).As(resAuthorName),
		col(aliasAuthor, colNationality).As(resAuthorNationality),
		copyCount.As(resBookCopyCount),
	}
}

// selectBooks joins book, category and (optionally) authors; one row per book/author pair.
func (s *Store) selectBooks() *goqu.SelectDataset {
	return s.dialect.From(goqu.T(tableBook).As(aliasBook)).
		Select(s.bookColumns()...).
		Join(goqu.T(tableCategory).As(aliasCategory), goqu.On(col(aliasBook, colCategoryID).Eq(col(aliasCategory, colID)))).
		LeftJoin(goqu.T(tableBookAuthor).As(aliasBookAuthor), goqu.On(col(aliasBookAuthor, colBookISBN).Eq(col(aliasBook, colISBN)))).
		LeftJoin(goqu.T(tableAuthor).As(aliasAuthor), goqu.On(col(aliasAuthor, colID).Eq(col(aliasBookAuthor, colAuthorID)))).
		Prepared(true)
}

// selectCopies extends the book join by the copy; one row per copy/author pair.
func (s *Store) selectCopies() *goqu.SelectDataset {
	columns := append([]any{
		col(aliasCopy, colID).As(resCopyID),
		col(aliasCopy, colOnLoan).As(resCopyOnLoan),
	}, s.bookColumns()...)

	return s.dialect.From(goqu.T(tableCopy).As(aliasCopy)).
		Select(columns...).
		Join(goqu.T(tableBook).As(aliasBook), goqu.On(col(aliasCopy, colBookISBN).Eq(col(aliasBook, colISBN)))).
		Join(goqu.T(tableCategory).As(aliasCategory), goqu.On(col(aliasBook, colCategoryID).Eq(col(aliasCategory, colID)))).
		LeftJoin(goqu.T(tableBookAuthor).As(aliasBookAuthor), goqu.On(col(aliasBookAuthor, colBookISBN).Eq(col(aliasBook, colISBN)))).
		LeftJoin(goqu.T(tableAuthor).As(aliasAuthor), goqu.On(col(aliasAuthor, colID).Eq(col(aliasBookAuthor, colAuthorID)))).
		Prepared(true)
}

func loanColumns() []any {
	return []any{
		col(aliasLoan, colID).As(resLoanID),
		col(aliasLoan, colLoanDate).As(resLoanDate),
		col(aliasLoan, colReturnDate).As(resLoanReturnDate),
		col(aliasUser, colID).As(resUserID),
		col(aliasUser, colName).As(resUserName),
		col(aliasUser, colEmail).As(resUserEmail),
		col(aliasUser, colPhone).As(resUserPhone),
		col(aliasUser, colRole).As(resUserRole),
		col(aliasCopy, colID).As(resCopyID),
		col(aliasCopy, colOnLoan).As(resCopyOnLoan),
		col(aliasBook, colISBN).As(resBookISBN),
		col(aliasBook, colTitle).As(resBookTitle),
	}
}

func joinLoanChain(ds *goqu.SelectDataset) *goqu.SelectDataset {
	return ds.
		Join(goqu.T(tableUser).As(aliasUser), goqu.On(col(aliasLoan, colUserID).Eq(col(aliasUser, colID)))).
		Join(goqu.T(tableCopy).As(aliasCopy), goqu.On(col(aliasLoan, colCopyID).Eq(col(aliasCopy, colID)))).
		Join(goqu.T(tableBook).As(aliasBook), goqu.On(col(aliasCopy, colBookISBN).Eq(col(aliasBook, colISBN))))
}

// selectLoans joins loan, user, copy and the copy's book; one row per loan.
func (s *Store) selectLoans() *goqu.SelectDataset {
	return joinLoanChain(s.dialect.From(goqu.T(tableLoan).As(aliasLoan)).Select(loanColumns()...)).
		Prepared(true)
}

// selectFines extends the loan chain by the fine; one row per fine.
func (s *Store) selectFines() *goqu.SelectDataset {
	columns := append([]any{
		col(aliasFine, colID).As(resFineID),
		col(aliasFine, colAmount).As(resFineAmount),
		col(aliasFine, colInterest).As(resFineInterest),
	}, loanColumns()...)

	ds := s.dialect.From(goqu.T(tableFine).As(aliasFine)).
		Select(columns...).
		Join(goqu.T(tableLoan).As(aliasLoan), goqu.On(col(aliasFine, colLoanID).Eq(col(aliasLoan, colID))))

	return joinLoanChain(ds).Prepared(true)
}
