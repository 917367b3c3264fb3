// internal/service/user_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"finledger/internal/domain"
	"finledger/internal/repository"
	"finledger/internal/util"
)

// UserService defines the interface for user-related business logic.
type UserService interface {
	CreateUser(ctx context.Context, name, email string, age int) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type userService struct {
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
	cache      UserCache
	users      userLookup
}

// NewUserService creates a new instance of UserService.
func NewUserService(dbExecutor repository.DBExecutor, userRepo repository.UserRepository, cache UserCache) UserService {
	return &userService{
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		cache:      cache,
		users:      userLookup{userRepo: userRepo, cache: cache},
	}
}

// CreateUser stores a new user. A taken email is reported as a validation error on "email".
func (s *userService) CreateUser(ctx context.Context, name, email string, age int) (*domain.User, error) {
	user := domain.NewUser(name, email, age)
	if err := s.userRepo.CreateUser(ctx, s.dbExecutor, user); err != nil {
		if errors.Is(err, util.ErrDuplicateEntry) {
			return nil, util.NewValidationError("email", "user with this email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.get(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.ListUsers(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes the user together with all of its transactions.
func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.userRepo.DeleteUser(ctx, s.dbExecutor, id); err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return fmt.Errorf("delete user %d: %w", id, util.ErrUserNotFound)
		}
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if s.cache != nil {
		s.cache.Delete(id)
	}
	return nil
}
