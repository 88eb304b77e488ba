package routes

import (
	"net/http"

	"github.com/hanifn/tagihin/internal/handler/account"
	"github.com/hanifn/tagihin/internal/handler/admin"
	"github.com/hanifn/tagihin/internal/handler/client"
	"github.com/hanifn/tagihin/internal/router"
)

// ClientDeps contains dependencies for the public client routes.
type ClientDeps struct {
	InvoiceHandler *client.InvoiceHandler

	// Health and metrics endpoints
	HealthHandler  http.HandlerFunc
	MetricsHandler http.Handler
}

// AccountDeps contains dependencies for the authenticated user routes.
type AccountDeps struct {
	AuthHandler    *account.AuthHandler
	InvoiceHandler *account.InvoiceHandler
	BillingHandler *account.BillingHandler

	// WithUser resolves the session cookie; RequireUser rejects anonymous
	// requests. Split so login/register stay reachable without a session.
	WithUser    router.Middleware
	RequireUser router.Middleware

	// LoginLimiter throttles credential endpoints per client IP.
	LoginLimiter router.Middleware
}

// AdminDeps contains dependencies for the admin routes.
type AdminDeps struct {
	AuthHandler *admin.AuthHandler
	UserHandler *admin.UserHandler

	WithAdmin    router.Middleware
	RequireAdmin router.Middleware
	LoginLimiter router.Middleware
}
