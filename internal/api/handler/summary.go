// internal/api/handler/summary.go
package handler

import (
	"log/slog"
	"net/http"

	"finledger/internal/api/types"
	"finledger/internal/service"
)

// SummaryHandler serves the per-user report endpoints.
type SummaryHandler struct {
	responder
	service service.ReportService
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(svc service.ReportService, logger *slog.Logger) *SummaryHandler {
	return &SummaryHandler{
		responder: responder{logger: logger},
		service:   svc,
	}
}

// AccountSummary groups the user's transactions per account, optionally
// restricted to start_date..end_date (DD-MM-YYYY, inclusive).
// GET /api/v1/users/{userID}/account-summary
func (h *SummaryHandler) AccountSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	query := r.URL.Query()
	rows, err := h.service.AccountSummary(r.Context(), userID, query.Get("start_date"), query.Get("end_date"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.AccountSummaryResponse{UserAccountSummary: rows})
}

// CategorySummary lists the user's transactions per flow type as {category: amount} entries.
// GET /api/v1/users/{userID}/category-summary
func (h *SummaryHandler) CategorySummary(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	breakdown, err := h.service.CategoryBreakdown(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, breakdown)
}
