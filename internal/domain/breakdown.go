// internal/domain/breakdown.go
package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CategoryEntry is the projection of a single transaction onto its category.
type CategoryEntry struct {
	Category string
	Amount   decimal.Decimal
}

// MarshalJSON renders the entry as a single-key object: {"<category>": "<amount>"}.
func (e CategoryEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{e.Category: e.Amount.StringFixed(AmountScale)})
}

// CategoryBreakdown splits a user's transactions by flow type.
type CategoryBreakdown struct {
	Inflow  []CategoryEntry `json:"inflow"`
	Outflow []CategoryEntry `json:"outflow"`
}

// BreakdownByCategory emits one entry per transaction, in input order.
// Entries sharing a category are not merged.
func BreakdownByCategory(txns []Transaction) CategoryBreakdown {
	breakdown := CategoryBreakdown{
		Inflow:  []CategoryEntry{},
		Outflow: []CategoryEntry{},
	}
	for _, t := range txns {
		entry := CategoryEntry{Category: t.Category, Amount: t.Amount}
		if t.Type() == FlowTypeOutflow {
			breakdown.Outflow = append(breakdown.Outflow, entry)
		} else {
			breakdown.Inflow = append(breakdown.Inflow, entry)
		}
	}
	return breakdown
}
