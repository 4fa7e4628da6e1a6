package library

import (
	"time"
)

// Instead of implementing full value objects, I'm using some alias types and helper methods here ...

// AuthorID represents an author identifier
type AuthorID = int64

// CategoryID represents a category identifier
type CategoryID = int64

// ISBNString represents an ISBN, the natural key of a book
type ISBNString = string

// CopyID represents the identifier of a physical book copy
type CopyID = int64

// UserID represents a library user identifier
type UserID = int64

// LoanID represents a loan identifier
type LoanID = int64

// FineID represents a fine identifier
type FineID = int64

// Date represents a calendar day (loan and return dates)
type Date = time.Time

// ToDate normalizes a time to a calendar day at midnight UTC.
func ToDate(t time.Time) Date {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
