// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"finledger/internal/api/types"
	"finledger/internal/util"
)

// DefaultTimeout bounds the time spent on a single request.
const DefaultTimeout = 30 * time.Second

// responder writes JSON responses and maps service errors to status codes.
type responder struct {
	logger *slog.Logger
}

// Helper function to send JSON responses.
func (h responder) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func (h responder) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := http.StatusInternalServerError
	body := types.ErrorResponse{Error: "Internal server error"}

	var verr *util.ValidationError
	switch {
	case errors.As(err, &verr):
		statusCode = http.StatusBadRequest
		body = types.ErrorResponse{Error: "Invalid input", Fields: verr.Fields}
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		body.Error = err.Error()
	case util.IsError(err, util.ErrNotFound), util.IsError(err, util.ErrUserNotFound):
		statusCode = http.StatusNotFound
		body.Error = "Resource not found"
	default:
		h.logger.ErrorContext(r.Context(), "Unhandled service error",
			"error", err, "method", r.Method, "path", r.URL.Path)
	}

	h.respondWithJSON(w, statusCode, body)
}

// idParam reads a numeric path parameter. Anything that is not a positive
// integer cannot name a stored row, so it is reported as not found.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, util.ErrNotFound
	}
	return id, nil
}
