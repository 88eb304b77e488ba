// Package admin serves the back-office API. Admins are a separate principal
// population from users, with their own credential table and session scope.
package admin

import (
	"net/http"
	"time"

	"github.com/hanifn/tagihin/internal/cookie"
	"github.com/hanifn/tagihin/internal/domain"
	"github.com/hanifn/tagihin/internal/handler"
	"github.com/hanifn/tagihin/internal/middleware"
	"github.com/hanifn/tagihin/internal/telemetry"
)

// AuthHandler handles admin session management.
type AuthHandler struct {
	admins     domain.AdminService
	sessions   domain.SessionService
	cookies    *cookie.Config
	sessionTTL time.Duration
}

// NewAuthHandler creates a new admin auth handler.
func NewAuthHandler(admins domain.AdminService, sessions domain.SessionService, cookies *cookie.Config, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		admins:     admins,
		sessions:   sessions,
		cookies:    cookies,
		sessionTTL: sessionTTL,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type principalResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Login handles POST /api/admin/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	admin, err := h.admins.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		telemetry.RecordLogin(domain.SessionScopeAdmin, false)
		middleware.GetLogger(r.Context()).Info("admin: login failed",
			"email", req.Email,
			"ip", middleware.GetClientIP(r),
		)
		handler.ErrorResponse(w, r, err)
		return
	}
	telemetry.RecordLogin(domain.SessionScopeAdmin, true)

	token, err := h.sessions.Create(r.Context(), admin.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.cookies.SetSession(w, cookie.AdminSessionCookieName, token, int(h.sessionTTL.Seconds()))
	handler.RespondJSON(w, http.StatusOK, principalResponse{
		ID:    admin.ID.String(),
		Email: admin.Email,
		Name:  admin.Name,
	})
}

// Logout handles POST /api/admin/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := cookie.Get(r, cookie.AdminSessionCookieName); token != "" {
		if err := h.sessions.Destroy(r.Context(), token); err != nil {
			middleware.GetLogger(r.Context()).Warn("admin: session destroy failed", "error", err)
		}
	}

	h.cookies.ClearSession(w, cookie.AdminSessionCookieName)
	handler.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me handles GET /api/admin/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	admin := domain.AdminFromContext(r.Context())
	if admin == nil {
		handler.UnauthorizedResponse(w, r)
		return
	}

	handler.RespondJSON(w, http.StatusOK, principalResponse{
		ID:    admin.ID.String(),
		Email: admin.Email,
		Name:  admin.Name,
	})
}
