package library

// User is a library member or staff person.
type User struct {
	ID    UserID
	Name  string
	Email string
	Phone string
	Role  string
}

// BuildUser creates a User that is not yet persisted (ID 0).
func BuildUser(name string, email string, phone string, role string) User {
	return User{
		Name:  name,
		Email: email,
		Phone: phone,
		Role:  role,
	}
}
