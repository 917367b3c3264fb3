// internal/repository/sqlstore/transaction_store.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finledger/internal/domain"
	"finledger/internal/repository"
	"finledger/internal/util"

	"github.com/shopspring/decimal"
)

// transactionColumns omits the type column. Loaded rows get their type from the amount.
const transactionColumns = `id, reference, account, date, amount, category, user_id`

type transactionRow struct {
	ID        int64           `db:"id"`
	Reference string          `db:"reference"`
	Account   string          `db:"account"`
	Date      domain.Date     `db:"date"`
	Amount    decimal.Decimal `db:"amount"`
	Category  string          `db:"category"`
	UserID    int64           `db:"user_id"`
}

func (r transactionRow) toDomain() domain.Transaction {
	return domain.NewTransaction(r.ID, domain.TransactionDraft{
		Reference: r.Reference,
		Account:   r.Account,
		Date:      r.Date,
		Amount:    r.Amount,
		Category:  r.Category,
		UserID:    r.UserID,
	})
}

func rowsToDomain(rows []transactionRow) []domain.Transaction {
	txns := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, row.toDomain())
	}
	return txns
}

// TransactionRepository implements repository.TransactionRepository on PostgreSQL or SQLite.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction inserts a transaction built from draft, writing the derived type.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, draft domain.TransactionDraft) (*domain.Transaction, error) {
	txn := domain.NewTransaction(0, draft)
	query := q.Rebind(`INSERT INTO transactions (reference, account, date, amount, type, category, user_id)
              VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)

	err := q.QueryRowContext(ctx, query,
		txn.Reference,
		txn.Account,
		txn.Date,
		txn.Amount.StringFixed(domain.AmountScale),
		string(txn.Type()),
		txn.Category,
		txn.UserID,
	).Scan(&txn.ID)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, fmt.Errorf("failed to create transaction '%s': %w", txn.Reference, util.ErrDuplicateEntry)
		case isForeignKeyViolation(err):
			return nil, fmt.Errorf("failed to create transaction '%s': %w", txn.Reference, util.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return &txn, nil
}

// GetTransactionByID retrieves a transaction by its ID.
func (r *TransactionRepository) GetTransactionByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Transaction, error) {
	var row transactionRow
	query := q.Rebind(`SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`)
	err := q.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by ID %d: %w", id, err)
	}
	txn := row.toDomain()
	return &txn, nil
}

// ListTransactions retrieves all transactions ordered by ID.
func (r *TransactionRepository) ListTransactions(ctx context.Context, q repository.DBExecutor) ([]domain.Transaction, error) {
	var rows []transactionRow
	err := q.SelectContext(ctx, &rows, `SELECT `+transactionColumns+` FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return rowsToDomain(rows), nil
}

// ListTransactionsByUserID retrieves the transactions owned by a user, ordered by ID.
func (r *TransactionRepository) ListTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Transaction, error) {
	var rows []transactionRow
	query := q.Rebind(`SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = ? ORDER BY id`)
	err := q.SelectContext(ctx, &rows, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for user %d: %w", userID, err)
	}
	return rowsToDomain(rows), nil
}
