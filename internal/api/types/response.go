// internal/api/types/response.go
package types

import "finledger/internal/domain"

// ErrorResponse is the body of every non-2xx JSON response.
// Fields is set only for validation failures.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// AccountSummaryResponse wraps the per-account rows of a user.
type AccountSummaryResponse struct {
	UserAccountSummary []domain.AccountSummary `json:"user_account_summary"`
}
