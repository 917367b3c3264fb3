// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"

	"finledger/internal/domain"
	"finledger/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

func (m *MockDBExecutor) Rebind(query string) string {
	return query
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, q repository.DBExecutor) ([]domain.User, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, q repository.DBExecutor, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, draft domain.TransactionDraft) (*domain.Transaction, error) {
	args := m.Called(ctx, q, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetTransactionByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Transaction, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, q repository.DBExecutor) ([]domain.Transaction, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Transaction, error) {
	args := m.Called(ctx, q, userID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController.
// It embeds MockDBExecutor so it also satisfies repository.DBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockPublisher records published batches.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishTransactionsCreated(ctx context.Context, txns []domain.Transaction, skipped []string) error {
	args := m.Called(ctx, txns, skipped)
	return args.Error(0)
}

// fakeCache is a map-backed UserCache.
type fakeCache struct {
	users map[int64]domain.User
}

func newFakeCache() *fakeCache {
	return &fakeCache{users: make(map[int64]domain.User)}
}

func (c *fakeCache) Get(id int64) (*domain.User, bool) {
	user, ok := c.users[id]
	if !ok {
		return nil, false
	}
	return &user, true
}

func (c *fakeCache) Set(user *domain.User) {
	c.users[user.ID] = *user
}

func (c *fakeCache) Delete(id int64) {
	delete(c.users, id)
}
