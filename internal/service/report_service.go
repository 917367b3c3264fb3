// internal/service/report_service.go
package service

import (
	"context"
	"fmt"

	"finledger/internal/domain"
	"finledger/internal/repository"
)

// ReportService computes read-only views over a user's transaction history.
type ReportService interface {
	// AccountSummary groups the user's transactions per account. start and end
	// are DD-MM-YYYY bounds; an empty or unparseable bound leaves that side open.
	AccountSummary(ctx context.Context, userID int64, start, end string) ([]domain.AccountSummary, error)
	CategoryBreakdown(ctx context.Context, userID int64) (*domain.CategoryBreakdown, error)
}

type reportService struct {
	dbExecutor      repository.DBExecutor
	transactionRepo repository.TransactionRepository
	users           userLookup
}

// NewReportService creates a new instance of ReportService.
func NewReportService(
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	cache UserCache,
) ReportService {
	return &reportService{
		dbExecutor:      dbExecutor,
		transactionRepo: transactionRepo,
		users:           userLookup{userRepo: userRepo, cache: cache},
	}
}

func (s *reportService) AccountSummary(ctx context.Context, userID int64, start, end string) ([]domain.AccountSummary, error) {
	txns, err := s.history(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("account summary: %w", err)
	}
	return domain.SummarizeAccounts(txns, domain.ParseDateRange(start, end)), nil
}

func (s *reportService) CategoryBreakdown(ctx context.Context, userID int64) (*domain.CategoryBreakdown, error) {
	txns, err := s.history(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	breakdown := domain.BreakdownByCategory(txns)
	return &breakdown, nil
}

// history loads the user's transactions, failing with util.ErrUserNotFound for unknown users.
func (s *reportService) history(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	if _, err := s.users.get(ctx, s.dbExecutor, userID); err != nil {
		return nil, err
	}
	txns, err := s.transactionRepo.ListTransactionsByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for user %d: %w", userID, err)
	}
	return txns, nil
}
