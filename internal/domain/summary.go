// internal/domain/summary.go
package domain

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// FilterDateLayout is the format of the start/end query parameters (DD-MM-YYYY).
// Day and month may omit the leading zero.
const FilterDateLayout = "2-1-2006"

// DateRange is an inclusive date window. A nil bound is open.
type DateRange struct {
	Start *Date
	End   *Date
}

// ParseDateRange parses both bounds as DD-MM-YYYY. A missing or unparseable
// bound is left open; the other bound is still applied.
func ParseDateRange(start, end string) DateRange {
	return DateRange{
		Start: parseBound(start),
		End:   parseBound(end),
	}
}

func parseBound(s string) *Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := ParseDate(FilterDateLayout, s)
	if err != nil {
		return nil
	}
	return &d
}

// Contains reports whether start <= d <= end.
func (r DateRange) Contains(d Date) bool {
	if r.Start != nil && d.Before(r.Start.Time) {
		return false
	}
	if r.End != nil && d.After(r.End.Time) {
		return false
	}
	return true
}

// AccountSummary holds the totals of one account over a date window.
type AccountSummary struct {
	Account      string
	TotalInflow  decimal.Decimal
	TotalOutflow decimal.Decimal // Always <= 0
	Balance      decimal.Decimal
}

// MarshalJSON renders amounts with two fractional digits.
func (s AccountSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Account      string `json:"account"`
		Balance      string `json:"balance"`
		TotalInflow  string `json:"total_inflow"`
		TotalOutflow string `json:"total_outflow"`
	}{
		Account:      s.Account,
		Balance:      s.Balance.StringFixed(AmountScale),
		TotalInflow:  s.TotalInflow.StringFixed(AmountScale),
		TotalOutflow: s.TotalOutflow.StringFixed(AmountScale),
	})
}

// SummarizeAccounts groups the transactions inside window by account and
// sums inflows and outflows per group. Rows are sorted by account.
func SummarizeAccounts(txns []Transaction, window DateRange) []AccountSummary {
	byAccount := make(map[string]*AccountSummary)
	for _, t := range txns {
		if !window.Contains(t.Date) {
			continue
		}
		row, ok := byAccount[t.Account]
		if !ok {
			row = &AccountSummary{
				Account:      t.Account,
				TotalInflow:  decimal.Zero,
				TotalOutflow: decimal.Zero,
			}
			byAccount[t.Account] = row
		}
		switch t.Type() {
		case FlowTypeInflow:
			row.TotalInflow = row.TotalInflow.Add(t.Amount)
		case FlowTypeOutflow:
			row.TotalOutflow = row.TotalOutflow.Add(t.Amount)
		}
	}

	summaries := make([]AccountSummary, 0, len(byAccount))
	for _, row := range byAccount {
		row.Balance = row.TotalInflow.Add(row.TotalOutflow)
		summaries = append(summaries, *row)
	}
	slices.SortFunc(summaries, func(a, b AccountSummary) int {
		return strings.Compare(a.Account, b.Account)
	})
	return summaries
}
