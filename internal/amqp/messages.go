// internal/amqp/messages.go
package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"finledger/internal/domain"
)

// CreatedTransaction is the part of a transaction carried in events.
type CreatedTransaction struct {
	ID        int64           `json:"id"`
	Reference string          `json:"reference"`
	Account   string          `json:"account"`
	Amount    string          `json:"amount"`
	Type      domain.FlowType `json:"type"`
	UserID    int64           `json:"user_id"`
}

// TransactionsCreatedMessage is published after a create request commits.
// SkippedReferences lists drafts dropped because their reference repeated
// earlier in the same batch.
type TransactionsCreatedMessage struct {
	EventID           string               `json:"event_id"`
	Transactions      []CreatedTransaction `json:"transactions"`
	SkippedReferences []string             `json:"skipped_references"`
	Timestamp         time.Time            `json:"timestamp"`
}

// NewTransactionsCreatedMessage creates a message with a fresh event ID.
func NewTransactionsCreatedMessage(txns []domain.Transaction, skipped []string) *TransactionsCreatedMessage {
	created := make([]CreatedTransaction, 0, len(txns))
	for _, t := range txns {
		created = append(created, CreatedTransaction{
			ID:        t.ID,
			Reference: t.Reference,
			Account:   t.Account,
			Amount:    t.Amount.StringFixed(domain.AmountScale),
			Type:      t.Type(),
			UserID:    t.UserID,
		})
	}
	if skipped == nil {
		skipped = []string{}
	}
	return &TransactionsCreatedMessage{
		EventID:           uuid.NewString(),
		Transactions:      created,
		SkippedReferences: skipped,
		Timestamp:         time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionsCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// transactionsCreatedMessageFromJSON creates a message from JSON bytes
func transactionsCreatedMessageFromJSON(data []byte) (*TransactionsCreatedMessage, error) {
	var msg TransactionsCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
