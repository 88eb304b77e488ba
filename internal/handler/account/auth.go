// Package account serves the authenticated user surface: registration,
// login, invoice management, and billing setup.
package account

import (
	"net/http"
	"time"

	"github.com/hanifn/tagihin/internal/cookie"
	"github.com/hanifn/tagihin/internal/domain"
	"github.com/hanifn/tagihin/internal/handler"
	"github.com/hanifn/tagihin/internal/middleware"
	"github.com/hanifn/tagihin/internal/telemetry"
)

// AuthHandler handles user registration and session management.
type AuthHandler struct {
	users      domain.UserService
	sessions   domain.SessionService
	cookies    *cookie.Config
	sessionTTL time.Duration
}

// NewAuthHandler creates a new account auth handler.
func NewAuthHandler(users domain.UserService, sessions domain.SessionService, cookies *cookie.Config, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		users:      users,
		sessions:   sessions,
		cookies:    cookies,
		sessionTTL: sessionTTL,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type principalResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Register handles POST /api/auth/register. A fresh session is created so
// the new account is signed in immediately.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}
	telemetry.RecordSignup()

	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.cookies.SetSession(w, cookie.SessionCookieName, token, int(h.sessionTTL.Seconds()))
	handler.RespondJSON(w, http.StatusCreated, principalResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		telemetry.RecordLogin(domain.SessionScopeUser, false)
		middleware.GetLogger(r.Context()).Info("account: login failed",
			"email", req.Email,
			"ip", middleware.GetClientIP(r),
		)
		handler.ErrorResponse(w, r, err)
		return
	}
	telemetry.RecordLogin(domain.SessionScopeUser, true)

	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.cookies.SetSession(w, cookie.SessionCookieName, token, int(h.sessionTTL.Seconds()))
	handler.RespondJSON(w, http.StatusOK, principalResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
	})
}

// Logout handles POST /api/auth/logout. Destroying an already absent
// session is not an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := cookie.Get(r, cookie.SessionCookieName); token != "" {
		if err := h.sessions.Destroy(r.Context(), token); err != nil {
			middleware.GetLogger(r.Context()).Warn("account: session destroy failed", "error", err)
		}
	}

	h.cookies.ClearSession(w, cookie.SessionCookieName)
	handler.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := domain.UserFromContext(r.Context())
	if user == nil {
		handler.UnauthorizedResponse(w, r)
		return
	}

	handler.RespondJSON(w, http.StatusOK, principalResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
	})
}
