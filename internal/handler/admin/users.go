package admin

import (
	"net/http"
	"strconv"

	"github.com/hanifn/tagihin/internal/domain"
	"github.com/hanifn/tagihin/internal/handler"
)

// UserHandler exposes the registered user list to admins.
type UserHandler struct {
	users domain.UserService
}

// NewUserHandler creates a new admin user handler.
func NewUserHandler(users domain.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /api/admin/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt32(r, "limit", 0)
	offset := queryInt32(r, "offset", 0)

	users, err := h.users.ListUsers(r.Context(), limit, offset)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
	})
}

func queryInt32(r *http.Request, name string, fallback int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return fallback
	}
	return int32(v)
}
