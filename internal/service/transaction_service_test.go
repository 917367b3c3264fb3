// internal/service/transaction_service_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"finledger/internal/domain"
	"finledger/internal/util"
	"finledger/pkg/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type transactionServiceMocks struct {
	userRepo        *MockUserRepository
	transactionRepo *MockTransactionRepository
	dbBeginner      *MockDBBeginner
	dbExecutor      *MockDBExecutor
	txController    *MockTxController
	publisher       *MockPublisher
}

func newTransactionServiceUnderTest(withPublisher bool) (TransactionService, *transactionServiceMocks) {
	m := &transactionServiceMocks{
		userRepo:        new(MockUserRepository),
		transactionRepo: new(MockTransactionRepository),
		dbBeginner:      new(MockDBBeginner),
		dbExecutor:      new(MockDBExecutor),
		txController:    new(MockTxController),
		publisher:       new(MockPublisher),
	}

	var publisher TransactionEventPublisher
	if withPublisher {
		publisher = m.publisher
	}

	svc := NewTransactionService(
		m.dbBeginner,
		m.dbExecutor,
		m.userRepo,
		m.transactionRepo,
		nil,
		publisher,
		func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return m.txController, nil
		},
		func(tx db.TxController) error {
			return m.txController.Commit()
		},
		func(tx db.TxController) {
			_ = m.txController.Rollback()
		},
		nil,
	)
	return svc, m
}

func draft(reference string, amount string, userID int64) domain.TransactionDraft {
	return domain.TransactionDraft{
		Reference: reference,
		Account:   "S00099",
		Date:      domain.NewDate(2020, time.January, 13),
		Amount:    decimal.RequireFromString(amount),
		Category:  "groceries",
		UserID:    userID,
	}
}

func stored(id int64, d domain.TransactionDraft) *domain.Transaction {
	txn := domain.NewTransaction(id, d)
	return &txn
}

func TestCreateTransactions(t *testing.T) {
	user := &domain.User{ID: 1, Name: "Ana", Email: "ana@example.com", Age: 30}

	t.Run("SuccessfulBatch", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newTransactionServiceUnderTest(true)

		a, b := draft("000051", "-51.13", 1), draft("000052", "2500.72", 1)

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, int64(1)).Return(user, nil).Once()
		m.transactionRepo.On("CreateTransaction", ctx, mock.Anything, a).Return(stored(1, a), nil).Once()
		m.transactionRepo.On("CreateTransaction", ctx, mock.Anything, b).Return(stored(2, b), nil).Once()
		m.publisher.On("PublishTransactionsCreated", ctx, mock.Anything, []string(nil)).Return(nil).Once()

		result, err := svc.CreateTransactions(ctx, []domain.TransactionDraft{a, b})

		require.NoError(t, err)
		require.Len(t, result.Transactions, 2)
		assert.Equal(t, "000051", result.Transactions[0].Reference)
		assert.Equal(t, domain.FlowTypeOutflow, result.Transactions[0].Type())
		assert.Equal(t, domain.FlowTypeInflow, result.Transactions[1].Type())
		assert.Empty(t, result.SkippedReferences)

		m.userRepo.AssertExpectations(t)
		m.transactionRepo.AssertExpectations(t)
		m.txController.AssertExpectations(t)
		m.publisher.AssertExpectations(t)
	})

	t.Run("RepeatedReferenceInBatchIsSkipped", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newTransactionServiceUnderTest(true)

		a, b, c := draft("A", "1", 1), draft("B", "2", 1), draft("C", "3", 1)
		repeat := draft("A", "-99", 1)

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, int64(1)).Return(user, nil).Once()
		m.transactionRepo.On("CreateTransaction", ctx, mock.Anything, a).Return(stored(1, a), nil).Once()
		m.transactionRepo.On("CreateTransaction", ctx, mock.Anything, b).Return(stored(2, b), nil).Once()
		m.transactionRepo.On("CreateTransaction", ctx, mock.Anything, c).Return(stored(3, c), nil).Once()
		m.publisher.On("PublishTransactionsCreated", ctx, mock.Anything, []string{"A"}).Return(nil).Once()

		result, err := svc.CreateTransactions(ctx, []domain.TransactionDraft{a, b, repeat, c})

		require.NoError(t, err)
		refs := make([]string, 0, len(result.Transactions))
		for _, txn := range result.Transactions {
			refs = append(refs, txn.Reference)
		}
		assert.Equal(t, []string{"A", "B", "C"}, refs)
		assert.Equal(t, []string{"A"}, result.SkippedReferences)
		assert.True(t, result.Transactions[0].Amount.Equal(decimal.NewFromInt(1)), "first occurrence wins")

		m.transactionRepo.AssertNumberOfCalls(t, "CreateTransaction", 3)
		m.publisher.AssertExpectations(t)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newTransactionServiceUnderTest(true)

		m.txController.On("Rollback").Return(nil).Once()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, int64(999)).Return(nil, util.ErrNotFound).Once()

		result, err := svc.CreateTransactions(ctx, []domain.TransactionDraft{draft("X1", "10", 999)})

		assert.Nil(t, result)
		var verr *util.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "user_id")
		assert.ErrorIs(t, err, util.ErrInvalidInput)

		m.transactionRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
		m.txController.AssertNotCalled(t, "Commit")
		m.publisher.AssertNotCalled(t, "PublishTransactionsCreated", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("StoredReferenceCollision", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newTransactionServiceUnderTest(true)

		a, b := draft("000051", "-51.13", 1), draft("000052", "10", 1)

		m.txController.On("Rollback").Return(nil).Once()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, int64(1)).Return(user, nil).Once()
		m.transactionRepo.On("CreateTransaction", ctx, mock.Anything, a).Return(stored(1, a), nil).Once()
		m.transactionRepo.On("CreateTransaction", ctx, mock.Anything, b).
			Return(nil, util.ErrDuplicateEntry).Once()

		result, err := svc.CreateTransactions(ctx, []domain.TransactionDraft{a, b})

		assert.Nil(t, result)
		var verr *util.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields["reference"], "000052")

		m.txController.AssertNotCalled(t, "Commit")
		m.txController.AssertExpectations(t)
		m.publisher.AssertNotCalled(t, "PublishTransactionsCreated", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CommitFailure", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newTransactionServiceUnderTest(true)

		a := draft("000051", "5", 1)
		commitErr := errors.New("commit failed")

		m.txController.On("Commit").Return(commitErr).Once()
		m.txController.On("Rollback").Return(nil).Once()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, int64(1)).Return(user, nil).Once()
		m.transactionRepo.On("CreateTransaction", ctx, mock.Anything, a).Return(stored(1, a), nil).Once()

		result, err := svc.CreateTransactions(ctx, []domain.TransactionDraft{a})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, commitErr)
		m.publisher.AssertNotCalled(t, "PublishTransactionsCreated", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PublishFailureDoesNotFailCreate", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newTransactionServiceUnderTest(true)

		a := draft("000051", "5", 1)

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, int64(1)).Return(user, nil).Once()
		m.transactionRepo.On("CreateTransaction", ctx, mock.Anything, a).Return(stored(1, a), nil).Once()
		m.publisher.On("PublishTransactionsCreated", ctx, mock.Anything, mock.Anything).
			Return(errors.New("broker down")).Once()

		result, err := svc.CreateTransactions(ctx, []domain.TransactionDraft{a})

		require.NoError(t, err)
		assert.Len(t, result.Transactions, 1)
		m.publisher.AssertExpectations(t)
	})

	t.Run("NoPublisher", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newTransactionServiceUnderTest(false)

		a := draft("000051", "5", 1)

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, int64(1)).Return(user, nil).Once()
		m.transactionRepo.On("CreateTransaction", ctx, mock.Anything, a).Return(stored(1, a), nil).Once()

		result, err := svc.CreateTransactions(ctx, []domain.TransactionDraft{a})

		require.NoError(t, err)
		assert.Len(t, result.Transactions, 1)
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newTransactionServiceUnderTest(true)

		result, err := svc.CreateTransactions(ctx, nil)

		require.NoError(t, err)
		assert.NotNil(t, result.Transactions)
		assert.Empty(t, result.Transactions)
		m.txController.AssertNotCalled(t, "Commit")
	})
}

func TestGetTransaction(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newTransactionServiceUnderTest(false)

		want := stored(7, draft("000051", "-51.13", 1))
		m.transactionRepo.On("GetTransactionByID", ctx, m.dbExecutor, int64(7)).Return(want, nil).Once()

		got, err := svc.GetTransaction(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("NotFound", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newTransactionServiceUnderTest(false)

		m.transactionRepo.On("GetTransactionByID", ctx, m.dbExecutor, int64(8)).Return(nil, util.ErrNotFound).Once()

		got, err := svc.GetTransaction(ctx, 8)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, util.ErrNotFound)
	})
}
