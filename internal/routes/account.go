package routes

import (
	"github.com/hanifn/tagihin/internal/router"
)

// RegisterAccountRoutes registers the authenticated user surface:
// registration, login, invoice management, and billing setup.
func RegisterAccountRoutes(r *router.Router, deps AccountDeps) {
	// Credential endpoints: no session required, rate limited
	r.Post("/api/auth/register", deps.AuthHandler.Register, deps.LoginLimiter)
	r.Post("/api/auth/login", deps.AuthHandler.Login, deps.LoginLimiter)

	// Session-aware endpoints
	session := r.Group(deps.WithUser)
	session.Post("/api/auth/logout", deps.AuthHandler.Logout)
	session.Get("/api/auth/me", deps.AuthHandler.Me)

	// Everything below requires an authenticated user
	authed := session.Group(deps.RequireUser)

	authed.Get("/api/invoices", deps.InvoiceHandler.List)
	authed.Post("/api/invoices", deps.InvoiceHandler.Create)
	authed.Get("/api/invoices/{id}", deps.InvoiceHandler.Get)
	authed.Put("/api/invoices/{id}", deps.InvoiceHandler.Update)
	authed.Delete("/api/invoices/{id}", deps.InvoiceHandler.Delete)
	authed.Post("/api/invoices/{id}/send", deps.InvoiceHandler.Send)
	authed.Post("/api/invoices/{id}/pay", deps.InvoiceHandler.MarkPaid)
	authed.Post("/api/invoices/{id}/cancel", deps.InvoiceHandler.Cancel)

	authed.Post("/api/billing/setup", deps.BillingHandler.Setup)
}
