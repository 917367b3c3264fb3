// internal/repository/user_repo.go
package repository

import (
	"context"

	"finledger/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser inserts user and sets its ID. A taken email yields util.ErrDuplicateEntry.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID retrieves a user by ID, or util.ErrNotFound.
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// ListUsers returns all users ordered by ID.
	ListUsers(ctx context.Context, q DBExecutor) ([]domain.User, error)
	// DeleteUser removes a user and, by cascade, its transactions.
	DeleteUser(ctx context.Context, q DBExecutor, id int64) error
}
