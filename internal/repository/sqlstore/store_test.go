// internal/repository/sqlstore/store_test.go
package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"finledger/internal/domain"
	"finledger/internal/util"
	"finledger/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conn, err := db.Open(db.Config{
		Driver:     db.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "finledger_test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func createUser(t *testing.T, conn *sqlx.DB, email string) *domain.User {
	t.Helper()
	user := domain.NewUser("user", email, 42)
	require.NoError(t, NewUserRepository().CreateUser(context.Background(), conn, user))
	return user
}

func draft(userID int64, reference, amount string) domain.TransactionDraft {
	return domain.TransactionDraft{
		Reference: reference,
		Account:   "S00099",
		Date:      domain.NewDate(2020, 1, 13),
		Amount:    decimal.RequireFromString(amount),
		Category:  "groceries",
		UserID:    userID,
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	repo := NewUserRepository()

	t.Run("CreateAndGet", func(t *testing.T) {
		user := createUser(t, conn, "one@example.com")
		assert.NotZero(t, user.ID)

		got, err := repo.GetUserByID(ctx, conn, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("DuplicateEmailLeavesCountUnchanged", func(t *testing.T) {
		before, err := repo.ListUsers(ctx, conn)
		require.NoError(t, err)

		err = repo.CreateUser(ctx, conn, domain.NewUser("again", "one@example.com", 30))
		assert.ErrorIs(t, err, util.ErrDuplicateEntry)

		after, err := repo.ListUsers(ctx, conn)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := repo.GetUserByID(ctx, conn, 999)
		assert.ErrorIs(t, err, util.ErrNotFound)
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		assert.ErrorIs(t, repo.DeleteUser(ctx, conn, 999), util.ErrNotFound)
	})
}

func TestTransactionRepository(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	repo := NewTransactionRepository()
	user := createUser(t, conn, "owner@example.com")

	t.Run("CreateDerivesType", func(t *testing.T) {
		txn, err := repo.CreateTransaction(ctx, conn, draft(user.ID, "000051", "-51.13"))
		require.NoError(t, err)
		assert.NotZero(t, txn.ID)
		assert.Equal(t, domain.FlowTypeOutflow, txn.Type())

		var storedType string
		require.NoError(t, conn.GetContext(ctx, &storedType, `SELECT type FROM transactions WHERE id = ?`, txn.ID))
		assert.Equal(t, "outflow", storedType)

		got, err := repo.GetTransactionByID(ctx, conn, txn.ID)
		require.NoError(t, err)
		assert.Equal(t, "000051", got.Reference)
		assert.Equal(t, domain.NewDate(2020, 1, 13), got.Date)
		assert.True(t, decimal.RequireFromString("-51.13").Equal(got.Amount))
		assert.Equal(t, domain.FlowTypeOutflow, got.Type())
	})

	t.Run("DuplicateReferenceLeavesCountUnchanged", func(t *testing.T) {
		before, err := repo.ListTransactions(ctx, conn)
		require.NoError(t, err)

		_, err = repo.CreateTransaction(ctx, conn, draft(user.ID, "000051", "10.00"))
		assert.ErrorIs(t, err, util.ErrDuplicateEntry)

		after, err := repo.ListTransactions(ctx, conn)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("UnknownOwner", func(t *testing.T) {
		_, err := repo.CreateTransaction(ctx, conn, draft(999, "orphan", "1.00"))
		assert.ErrorIs(t, err, util.ErrUserNotFound)
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := repo.GetTransactionByID(ctx, conn, 999)
		assert.ErrorIs(t, err, util.ErrNotFound)
	})

	t.Run("ListByUser", func(t *testing.T) {
		other := createUser(t, conn, "other@example.com")
		_, err := repo.CreateTransaction(ctx, conn, draft(other.ID, "000052", "2500.72"))
		require.NoError(t, err)

		mine, err := repo.ListTransactionsByUserID(ctx, conn, user.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "000051", mine[0].Reference)

		theirs, err := repo.ListTransactionsByUserID(ctx, conn, other.ID)
		require.NoError(t, err)
		require.Len(t, theirs, 1)
		assert.Equal(t, domain.FlowTypeInflow, theirs[0].Type())
	})
}

func TestDeleteUserCascadesTransactions(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	users := NewUserRepository()
	txns := NewTransactionRepository()

	owner := createUser(t, conn, "owner@example.com")
	bystander := createUser(t, conn, "bystander@example.com")
	for _, ref := range []string{"A", "B", "C"} {
		_, err := txns.CreateTransaction(ctx, conn, draft(owner.ID, ref, "-10.00"))
		require.NoError(t, err)
	}
	_, err := txns.CreateTransaction(ctx, conn, draft(bystander.ID, "D", "10.00"))
	require.NoError(t, err)

	require.NoError(t, users.DeleteUser(ctx, conn, owner.ID))

	owned, err := txns.ListTransactionsByUserID(ctx, conn, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, owned)

	all, err := txns.ListTransactions(ctx, conn)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "D", all[0].Reference)

	_, err = users.GetUserByID(ctx, conn, owner.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
}
