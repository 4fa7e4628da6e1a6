package library

// Copy is one physical exemplar of a Book.
// OnLoan is true while the copy is lent out; it is flipped by the loan write plans only.
type Copy struct {
	ID     CopyID
	Book   Book
	OnLoan bool
}

// BuildCopy creates a new, available copy of the book with the given ISBN.
func BuildCopy(isbn ISBNString) Copy {
	return Copy{
		Book:   Book{ISBN: isbn},
		OnLoan: false,
	}
}

// IsAvailable reports whether the copy can be lent.
func (c Copy) IsAvailable() bool {
	return !c.OnLoan
}
