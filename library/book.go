package library

// Book is the aggregate root of a title with its category and authors.
// CopyCount is derived by the store when reading and ignored when writing.
type Book struct {
	ISBN            ISBNString
	Title           string
	PublicationYear int
	Category        Category
	Authors         []Author
	CopyCount       int
}

// BuildBook creates a Book, dropping authors whose ID was already supplied.
func BuildBook(isbn ISBNString, title string, publicationYear int, category Category, authors ...Author) Book {
	book := Book{
		ISBN:            isbn,
		Title:           title,
		PublicationYear: publicationYear,
		Category:        category,
		Authors:         make([]Author, 0, len(authors)),
	}

	for _, author := range authors {
		book.AddAuthor(author)
	}

	return book
}

// AddAuthor appends the author unless an author with the same ID is already present.
// It reports whether the author was added.
func (b *Book) AddAuthor(author Author) bool {
	if b.HasAuthor(author.ID) {
		return false
	}

	b.Authors = append(b.Authors, author)

	return true
}

// HasAuthor reports whether an author with the given ID belongs to the book.
func (b Book) HasAuthor(id AuthorID) bool {
	for _, author := range b.Authors {
		if author.ID == id {
			return true
		}
	}

	return false
}

// AuthorIDs returns the IDs of the book's authors in order.
func (b Book) AuthorIDs() []AuthorID {
	ids := make([]AuthorID, 0, len(b.Authors))
	for _, author := range b.Authors {
		ids = append(ids, author.ID)
	}

	return ids
}
