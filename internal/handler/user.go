package handler

import (
	"log/slog"
	"net/http"

	docsysSvc "filedesk/internal/domain/services/docsystem"
	"filedesk/internal/httputil"
)

// UserHandler handles user HTTP requests
type UserHandler struct {
	userService docsysSvc.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService docsysSvc.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// CreateUser creates a user
// POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req docsysSvc.CreateUserRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleBadBody(w, err)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, user)
}

// GetUser retrieves a user
// GET /users/{userId}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "userId")
	if err != nil {
		handleError(w, err)
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

// CountUsers returns the number of users
// GET /users/count
func (h *UserHandler) CountUsers(w http.ResponseWriter, r *http.Request) {
	count, err := h.userService.CountUsers(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int{"count": count})
}
