// internal/domain/transaction.go
package domain

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// FlowType is the direction of money for a transaction.
type FlowType string

const (
	FlowTypeInflow  FlowType = "inflow"
	FlowTypeOutflow FlowType = "outflow"
)

// AmountScale is the number of fractional digits an amount may carry.
const AmountScale = 2

var (
	ErrAmountPrecision = errors.New("amount has more than 2 decimal places")
	ErrAmountRange     = errors.New("amount exceeds 10 integer digits")

	maxAmount = decimal.New(1, 10)
)

// DeriveFlowType maps an amount to its flow direction. Zero counts as inflow.
func DeriveFlowType(amount decimal.Decimal) FlowType {
	if amount.IsNegative() {
		return FlowTypeOutflow
	}
	return FlowTypeInflow
}

// ValidateAmount reports whether amount fits NUMERIC(12, 2).
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(AmountScale)) {
		return ErrAmountPrecision
	}
	if amount.Abs().GreaterThanOrEqual(maxAmount) {
		return ErrAmountRange
	}
	return nil
}

// TransactionDraft is a transaction that has not been persisted yet.
// It has no type: the type is always derived from Amount.
type TransactionDraft struct {
	Reference string
	Account   string
	Date      Date
	Amount    decimal.Decimal
	Category  string
	UserID    int64
}

// Transaction represents a persisted financial transaction record.
type Transaction struct {
	ID        int64
	Reference string // Unique business key
	Account   string // Free-form grouping label, shared by many transactions
	Date      Date
	Amount    decimal.Decimal // NUMERIC(12, 2) in DB
	Category  string
	UserID    int64 // Owning user
}

// NewTransaction builds a Transaction from a draft and its storage identity.
func NewTransaction(id int64, draft TransactionDraft) Transaction {
	return Transaction{
		ID:        id,
		Reference: draft.Reference,
		Account:   draft.Account,
		Date:      draft.Date,
		Amount:    draft.Amount,
		Category:  draft.Category,
		UserID:    draft.UserID,
	}
}

// Type is derived from the sign of Amount on every call, so it cannot drift.
func (t Transaction) Type() FlowType {
	return DeriveFlowType(t.Amount)
}

// MarshalJSON renders the transaction with its derived type and a two-digit amount.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        int64    `json:"id"`
		Reference string   `json:"reference"`
		Account   string   `json:"account"`
		Date      Date     `json:"date"`
		Amount    string   `json:"amount"`
		Type      FlowType `json:"type"`
		Category  string   `json:"category"`
		UserID    int64    `json:"user_id"`
	}{
		ID:        t.ID,
		Reference: t.Reference,
		Account:   t.Account,
		Date:      t.Date,
		Amount:    t.Amount.StringFixed(AmountScale),
		Type:      t.Type(),
		Category:  t.Category,
		UserID:    t.UserID,
	})
}
