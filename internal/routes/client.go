package routes

import (
	"github.com/hanifn/tagihin/internal/router"
)

// RegisterClientRoutes registers the public, token-gated invoice routes
// plus health and metrics. No authentication middleware; the access token
// in the path is the only credential.
func RegisterClientRoutes(r *router.Router, deps ClientDeps) {
	r.Get("/api/client/invoices/{token}", deps.InvoiceHandler.GetInvoice)
	r.Get("/invoice/{token}", deps.InvoiceHandler.ShowInvoice)

	r.Get("/health", deps.HealthHandler)
	r.Handle("GET", "/metrics", deps.MetricsHandler)
}
