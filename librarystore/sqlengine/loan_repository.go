package sqlengine

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/relational-library-store-go/library"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
)

const (
	actionReadLoans = "read loans"
	actionReadLoan  = "read loan"

	planCreateLoan = "create loan"
	planDeleteLoan = "delete loan"
	planReturnLoan = "return loan"

	stepCheckCopy    = "check copy availability"
	stepInsertLoan   = "insert loan"
	stepLendCopy     = "mark copy on loan"
	stepLookUpLoan   = "look up loan"
	stepDeleteLoan   = "delete loan"
	stepReleaseCopy  = "mark copy available"
	stepRecordReturn = "record return date"

	capturedCopyID   = "copy_id"
	capturedLoanOpen = "loan_open"
)

// LoanRepository reads and writes Loan aggregates (loan, user, copy, partial book).
// Its write plans keep book_copy.on_loan true exactly while an open loan references the copy.
type LoanRepository struct {
	store *Store
}

func loanMapping() librarystore.RowMapping[library.LoanID, library.Loan] {
	return librarystore.RowMapping[library.LoanID, library.Loan]{
		KeyOf: func(row librarystore.Row) (library.LoanID, error) {
			return row.GetInt(resLoanID)
		},
		BuildRoot: func(row librarystore.Row) (*library.Loan, error) {
			loan, err := readLoan(row)
			if err != nil {
				return nil, err
			}

			return &loan, nil
		},
	}
}

// ReadAll returns all loans, most recent loan date first.
func (r LoanRepository) ReadAll(ctx context.Context) ([]library.Loan, error) {
	query := r.store.selectLoans().Order(col(aliasLoan, colLoanDate).Desc(), col(aliasLoan, colID).Desc())

	return materialize(ctx, r.store, actionReadLoans, query, loanMapping())
}

// Read returns the loan with the given ID; found is false if there is none.
func (r LoanRepository) Read(ctx context.Context, id library.LoanID) (library.Loan, bool, error) {
	query := r.store.selectLoans().Where(col(aliasLoan, colID).Eq(id))

	return materializeOne(ctx, r.store, actionReadLoan, query, loanMapping())
}

// Create lends the copy to the user. It returns false, leaving everything unchanged,
// if the copy does not exist or is already on loan. The loan is always created open.
func (r LoanRepository) Create(ctx context.Context, loan library.Loan) (bool, error) {
	d := r.store.dialect
	copyID := loan.Copy.ID

	plan := librarystore.BuildWritePlan(planCreateLoan,
		librarystore.ReadStep(stepCheckCopy,
			fixed(d.From(tableCopy).Select(colOnLoan).Where(goqu.C(colID).Eq(copyID)).Prepared(true)),
			func(row librarystore.Row, _ librarystore.Captured) error {
				onLoan, err := row.GetBool(colOnLoan)
				if err != nil {
					return err
				}

				if onLoan {
					return librarystore.Abort("copy is already on loan")
				}

				return nil
			}),
		librarystore.RequiredExecStep(stepInsertLoan, fixed(d.Insert(tableLoan).Rows(goqu.Record{
			colLoanDate: library.ToDate(loan.LoanDate),
			colUserID:   loan.User.ID,
			colCopyID:   copyID,
		}).Prepared(true))),
		librarystore.RequiredExecStep(stepLendCopy, r.setCopyOnLoan(true, func(librarystore.Captured) int64 {
			return copyID
		})),
	)

	return r.store.RunTransaction(ctx, plan)
}

// Delete removes the loan. If the loan was still open, its copy becomes available again.
// It returns false if the loan does not exist.
func (r LoanRepository) Delete(ctx context.Context, id library.LoanID) (bool, error) {
	d := r.store.dialect

	release := librarystore.RequiredExecStep(stepReleaseCopy, r.setCopyOnLoan(false, capturedCopy))
	release.Skip = func(captured librarystore.Captured) bool {
		return !captured.Bool(capturedLoanOpen)
	}

	plan := librarystore.BuildWritePlan(planDeleteLoan,
		librarystore.ReadStep(stepLookUpLoan, r.lookUpLoan(id), captureLoan),
		librarystore.RequiredExecStep(stepDeleteLoan,
			fixed(d.Delete(tableLoan).Where(goqu.C(colID).Eq(id)).Prepared(true))),
		release,
	)

	return r.store.RunTransaction(ctx, plan)
}

// Return closes the loan at returnDate and makes its copy available again.
// It returns false if the loan does not exist or was already returned.
func (r LoanRepository) Return(ctx context.Context, id library.LoanID, returnDate time.Time) (bool, error) {
	d := r.store.dialect

	plan := librarystore.BuildWritePlan(planReturnLoan,
		librarystore.ReadStep(stepLookUpLoan, r.lookUpLoan(id), func(row librarystore.Row, captured librarystore.Captured) error {
			if err := captureLoan(row, captured); err != nil {
				return err
			}

			if !captured.Bool(capturedLoanOpen) {
				return librarystore.Abort("loan was already returned")
			}

			return nil
		}),
		librarystore.RequiredExecStep(stepRecordReturn, fixed(d.Update(tableLoan).
			Set(goqu.Record{colReturnDate: library.ToDate(returnDate)}).
			Where(goqu.C(colID).Eq(id)).
			Prepared(true))),
		librarystore.RequiredExecStep(stepReleaseCopy, r.setCopyOnLoan(false, capturedCopy)),
	)

	return r.store.RunTransaction(ctx, plan)
}

func (r LoanRepository) lookUpLoan(id library.LoanID) librarystore.StatementBuilder {
	return fixed(r.store.dialect.From(tableLoan).
		Select(colCopyID, colReturnDate).
		Where(goqu.C(colID).Eq(id)).
		Prepared(true))
}

func (r LoanRepository) setCopyOnLoan(onLoan bool, copyID func(librarystore.Captured) int64) librarystore.StatementBuilder {
	return func(captured librarystore.Captured) (librarystore.Statement, error) {
		return toStatement(r.store.dialect.Update(tableCopy).
			Set(goqu.Record{colOnLoan: onLoan}).
			Where(goqu.C(colID).Eq(copyID(captured))).
			Prepared(true))
	}
}

// captureLoan stores the looked-up loan's copy ID and whether it is still open.
func captureLoan(row librarystore.Row, captured librarystore.Captured) error {
	copyID, err := row.GetInt(colCopyID)
	if err != nil {
		return err
	}

	returnDate, err := row.GetNullableDate(colReturnDate)
	if err != nil {
		return err
	}

	captured[capturedCopyID] = copyID
	captured[capturedLoanOpen] = returnDate == nil

	return nil
}

func capturedCopy(captured librarystore.Captured) int64 {
	copyID, _ := captured.Int(capturedCopyID)
	return copyID
}
