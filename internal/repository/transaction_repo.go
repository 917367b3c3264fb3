// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"finledger/internal/domain"
)

// TransactionRepository defines the interface for transaction data operations.
type TransactionRepository interface {
	// CreateTransaction persists a draft. A taken reference yields util.ErrDuplicateEntry,
	// an unknown owner util.ErrUserNotFound.
	CreateTransaction(ctx context.Context, q DBExecutor, draft domain.TransactionDraft) (*domain.Transaction, error)
	// GetTransactionByID retrieves a transaction by ID, or util.ErrNotFound.
	GetTransactionByID(ctx context.Context, q DBExecutor, id int64) (*domain.Transaction, error)
	// ListTransactions returns every transaction ordered by ID.
	ListTransactions(ctx context.Context, q DBExecutor) ([]domain.Transaction, error)
	// ListTransactionsByUserID returns a user's transactions ordered by ID.
	ListTransactionsByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.Transaction, error)
}
