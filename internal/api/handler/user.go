// internal/api/handler/user.go
package handler

import (
	"log/slog"
	"net/http"

	"finledger/internal/service"
)

// UserHandler handles HTTP requests related to users.
type UserHandler struct {
	responder
	service service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		responder: responder{logger: logger},
		service:   svc,
	}
}

// ListUsers returns every user.
// GET /api/v1/users/
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, users)
}

// CreateUser handles the create user request.
// POST /api/v1/users/
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	var req CreateUserRequest
	if err := decodeJSON(data, &req, ""); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	req.normalize()
	if err := validateStruct(&req, ""); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), req.Name, req.Email, *req.Age)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "User created", "user_id", user.ID)
	h.respondWithJSON(w, http.StatusCreated, user)
}

// GetUser returns a single user.
// GET /api/v1/users/{userID}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, user)
}

// DeleteUser removes a user and its transactions.
// DELETE /api/v1/users/{userID}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "User deleted", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}
