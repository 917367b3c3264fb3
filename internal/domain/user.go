// internal/domain/user.go
package domain

// User represents the owner of a set of transactions.
type User struct {
	ID    int64  `db:"id" json:"id"`       // Primary key
	Name  string `db:"name" json:"name"`   // Display name, never blank
	Email string `db:"email" json:"email"` // Unique across all users
	Age   int    `db:"age" json:"age"`
}

// NewUser creates a new User instance. The ID is assigned by storage.
func NewUser(name, email string, age int) *User {
	return &User{
		Name:  name,
		Email: email,
		Age:   age,
	}
}
