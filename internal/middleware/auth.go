package middleware

import (
	"net/http"

	"github.com/hanifn/tagihin/internal/cookie"
	"github.com/hanifn/tagihin/internal/domain"
)

type contextKey string

// WithUser resolves the account session cookie and attaches the user principal
// to the request context. This middleware is optional - it adds the user if
// present but doesn't require authentication.
func WithUser(sessions domain.SessionService, users domain.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookie.Get(r, cookie.SessionCookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				// Invalid or expired session, continue without user
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByID(r.Context(), userID.String())
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := domain.NewContextWithUser(r.Context(), user.Principal())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithAdmin resolves the admin session cookie and attaches the admin principal
// to the request context. Admin and user sessions are scoped separately; a
// user session token never resolves here.
func WithAdmin(sessions domain.SessionService, admins domain.AdminService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookie.Get(r, cookie.AdminSessionCookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			adminID, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			admin, err := admins.GetAdminByID(r.Context(), adminID.String())
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := domain.NewContextWithAdmin(r.Context(), admin.Principal())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser ensures a user principal is present, returning 401 JSON if not.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domain.IsAuthenticated(r.Context()) {
			respondUnauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin ensures an admin principal is present, returning 401 JSON if not.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domain.IsAdmin(r.Context()) {
			respondUnauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
