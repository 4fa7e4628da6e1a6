// Package library contains the domain entities of the lending library:
// authors, categories, books, physical copies, users, loans and fines.
//
// The entities are plain value records. Identity is carried by the ID fields
// (the ISBN for books), which are assigned by the relational store.
//
// Books keep an ordered set of authors. The set never contains two authors
// with the same ID; use BuildBook and Book.AddAuthor to maintain that.
//
// A Copy carries the OnLoan flag, the single source of truth for availability.
// A Loan is open while its ReturnDate is nil.
package library
