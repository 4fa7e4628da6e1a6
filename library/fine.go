package library

// Fine is charged against a Loan.
type Fine struct {
	ID       FineID
	Amount   float64
	Interest float64
	Loan     Loan
}

// BuildFine creates a Fine for the loan with the given ID.
func BuildFine(loanID LoanID, amount float64, interest float64) Fine {
	return Fine{
		Amount:   amount,
		Interest: interest,
		Loan:     Loan{ID: loanID},
	}
}

// Total returns the amount plus interest.
func (f Fine) Total() float64 {
	return f.Amount + f.Interest
}
