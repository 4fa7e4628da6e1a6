package library

// Category classifies books; each book has exactly one.
type Category struct {
	ID   CategoryID
	Name string
}

// BuildCategory creates a Category that is not yet persisted (ID 0).
func BuildCategory(name string) Category {
	return Category{Name: name}
}
