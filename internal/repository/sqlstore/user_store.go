// internal/repository/sqlstore/user_store.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finledger/internal/domain"
	"finledger/internal/repository"
	"finledger/internal/util"
)

// UserRepository implements repository.UserRepository on PostgreSQL or SQLite.
type UserRepository struct{}

// NewUserRepository creates a new UserRepository.
// Methods receive a repository.DBExecutor, so the repository holds no connection.
func NewUserRepository() repository.UserRepository {
	return &UserRepository{}
}

// CreateUser inserts a new user into the database using the provided DBExecutor.
func (r *UserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := q.Rebind(`INSERT INTO users (name, email, age) VALUES (?, ?, ?) RETURNING id`)
	err := q.QueryRowContext(ctx, query, user.Name, user.Email, user.Age).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create user with email '%s': %w", user.Email, util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID using the provided DBExecutor.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	var user domain.User
	query := q.Rebind(`SELECT id, name, email, age FROM users WHERE id = ?`)
	err := q.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// ListUsers retrieves all users ordered by ID.
func (r *UserRepository) ListUsers(ctx context.Context, q repository.DBExecutor) ([]domain.User, error) {
	users := []domain.User{}
	err := q.SelectContext(ctx, &users, `SELECT id, name, email, age FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// DeleteUser deletes a user. The foreign key on transactions.user_id cascades.
func (r *UserRepository) DeleteUser(ctx context.Context, q repository.DBExecutor, id int64) error {
	query := q.Rebind(`DELETE FROM users WHERE id = ?`)
	result, err := q.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting user %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
