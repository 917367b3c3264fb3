// internal/service/service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"finledger/internal/domain"
	"finledger/internal/repository"
	"finledger/internal/util"
)

// UserCache is the subset of cache.UserCache the services use. A nil UserCache disables caching.
type UserCache interface {
	Get(id int64) (*domain.User, bool)
	Set(user *domain.User)
	Delete(id int64)
}

// TransactionEventPublisher announces committed transactions. A nil publisher disables events.
type TransactionEventPublisher interface {
	PublishTransactionsCreated(ctx context.Context, txns []domain.Transaction, skipped []string) error
}

// userLookup resolves users through the cache before hitting storage.
type userLookup struct {
	userRepo repository.UserRepository
	cache    UserCache
}

func (l userLookup) get(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	if l.cache != nil {
		if user, ok := l.cache.Get(id); ok {
			return user, nil
		}
	}

	user, err := l.userRepo.GetUserByID(ctx, q, id)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, util.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}

	if l.cache != nil {
		l.cache.Set(user)
	}
	return user, nil
}
