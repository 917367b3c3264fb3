// internal/api/handler/transaction.go
package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"finledger/internal/service"
)

// SkippedReferencesHeader lists, comma-separated, the references dropped from a batch as repeats.
const SkippedReferencesHeader = "X-Skipped-References"

// TransactionHandler handles HTTP requests related to transactions.
type TransactionHandler struct {
	responder
	service service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(svc service.TransactionService, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		responder: responder{logger: logger},
		service:   svc,
	}
}

// ListTransactions returns every transaction.
// GET /api/v1/transactions/
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := h.service.ListTransactions(r.Context())
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, txns)
}

// CreateTransactions accepts a single transaction object or an array of them.
// The response mirrors the request shape.
// POST /api/v1/transactions/
func (h *TransactionHandler) CreateTransactions(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	drafts, batch, err := decodeTransactionRequests(data)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	result, err := h.service.CreateTransactions(r.Context(), drafts)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	if len(result.SkippedReferences) > 0 {
		w.Header().Set(SkippedReferencesHeader, strings.Join(result.SkippedReferences, ","))
	}
	h.logger.InfoContext(r.Context(), "Transactions created",
		"count", len(result.Transactions), "skipped", len(result.SkippedReferences))

	if batch {
		h.respondWithJSON(w, http.StatusCreated, result.Transactions)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, result.Transactions[0])
}

// GetTransaction returns a single transaction.
// GET /api/v1/transactions/{transactionID}
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, err := idParam(r, "transactionID")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	txn, err := h.service.GetTransaction(r.Context(), transactionID)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, txn)
}
