package library

// Author is referenced by books (many-to-many) and owned by no one.
type Author struct {
	ID          AuthorID
	Name        string
	Nationality string
}

// BuildAuthor creates an Author that is not yet persisted (ID 0).
func BuildAuthor(name string, nationality string) Author {
	return Author{
		Name:        name,
		Nationality: nationality,
	}
}
