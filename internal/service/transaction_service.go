// internal/service/transaction_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finledger/internal/domain"
	"finledger/internal/repository"
	"finledger/internal/util"
	"finledger/pkg/db"
)

// CreateResult is the outcome of a batch create.
type CreateResult struct {
	// Transactions holds the stored rows in input order.
	Transactions []domain.Transaction
	// SkippedReferences lists references dropped as repeats within the batch.
	SkippedReferences []string
}

// TransactionService defines the interface for transaction-related business logic.
type TransactionService interface {
	CreateTransactions(ctx context.Context, drafts []domain.TransactionDraft) (*CreateResult, error)
	GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}

type transactionService struct {
	dbBeginner      db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor      repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	transactionRepo repository.TransactionRepository
	users           userLookup
	publisher       TransactionEventPublisher
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
	logger          *slog.Logger
}

// NewTransactionService creates a new instance of TransactionService.
// publisher and cache may be nil.
func NewTransactionService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	cache UserCache,
	publisher TransactionEventPublisher,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) TransactionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &transactionService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		transactionRepo: transactionRepo,
		users:           userLookup{userRepo: userRepo, cache: cache},
		publisher:       publisher,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
		logger:          logger.With("component", "transaction_service"),
	}
}

// CreateTransactions stores a batch atomically. Later drafts repeating an
// earlier reference in the same batch are dropped and reported in the result.
func (s *transactionService) CreateTransactions(ctx context.Context, drafts []domain.TransactionDraft) (*CreateResult, error) {
	kept, skipped := domain.DedupeDrafts(drafts)
	result := &CreateResult{
		Transactions:      make([]domain.Transaction, 0, len(kept)),
		SkippedReferences: skipped,
	}
	if len(kept) == 0 {
		return result, nil
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create transactions: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create transactions: transaction controller does not implement DBExecutor")
	}

	checked := make(map[int64]struct{})
	for _, draft := range kept {
		if _, seen := checked[draft.UserID]; seen {
			continue
		}
		if _, err := s.users.get(ctx, txExecutor, draft.UserID); err != nil {
			if errors.Is(err, util.ErrUserNotFound) {
				return nil, unknownUserError(draft.UserID)
			}
			return nil, fmt.Errorf("create transactions: %w", err)
		}
		checked[draft.UserID] = struct{}{}
	}

	for _, draft := range kept {
		txn, err := s.transactionRepo.CreateTransaction(ctx, txExecutor, draft)
		if err != nil {
			switch {
			case errors.Is(err, util.ErrDuplicateEntry):
				return nil, util.NewValidationError("reference",
					fmt.Sprintf("transaction with reference %q already exists", draft.Reference))
			case errors.Is(err, util.ErrUserNotFound):
				return nil, unknownUserError(draft.UserID)
			}
			return nil, fmt.Errorf("create transactions: failed to create %q: %w", draft.Reference, err)
		}
		result.Transactions = append(result.Transactions, *txn)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create transactions: failed to commit transaction: %w", err)
	}

	if len(skipped) > 0 {
		s.logger.WarnContext(ctx, "Dropped repeated references in batch", "skipped_references", skipped)
	}
	s.publish(ctx, result)

	return result, nil
}

// publish announces a committed batch. Failures are logged, the batch is already stored.
func (s *transactionService) publish(ctx context.Context, result *CreateResult) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionsCreated(ctx, result.Transactions, result.SkippedReferences); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish transactions.created event",
			"error", err, "count", len(result.Transactions))
	}
}

func (s *transactionService) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.GetTransactionByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	txns, err := s.transactionRepo.ListTransactions(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

func unknownUserError(id int64) error {
	return util.NewValidationError("user_id", fmt.Sprintf("invalid pk \"%d\" - object does not exist", id))
}
