package library

import (
	"time"
)

// Loan records that a User borrowed a Copy.
// ReturnDate is nil while the loan is open.
type Loan struct {
	ID         LoanID
	LoanDate   Date
	ReturnDate *Date
	User       User
	Copy       Copy
}

// BuildLoan creates a new open loan of the copy to the user.
func BuildLoan(userID UserID, copyID CopyID, loanDate time.Time) Loan {
	return Loan{
		LoanDate: ToDate(loanDate),
		User:     User{ID: userID},
		Copy:     Copy{ID: copyID},
	}
}

// IsOpen reports whether the loan has not been returned yet.
func (l Loan) IsOpen() bool {
	return l.ReturnDate == nil
}
