// Package client serves the invoice views reached through shareable access
// tokens. No authentication; the token is the only credential.
package client

import (
	"log/slog"
	"net/http"

	"github.com/hanifn/tagihin/internal/domain"
	"github.com/hanifn/tagihin/internal/handler"
	"github.com/hanifn/tagihin/internal/telemetry"
)

// InvoiceHandler serves client-facing invoice lookups.
type InvoiceHandler struct {
	access   domain.InvoiceAccessService
	renderer *handler.Renderer
}

// NewInvoiceHandler creates a new client invoice handler.
func NewInvoiceHandler(access domain.InvoiceAccessService, renderer *handler.Renderer) *InvoiceHandler {
	return &InvoiceHandler{
		access:   access,
		renderer: renderer,
	}
}

// GetInvoice handles GET /api/client/invoices/{token}
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	detail, err := h.access.GetByToken(r.Context(), token)
	if err != nil {
		telemetry.RecordClientInvoiceView(viewOutcome(err))
		handler.PublicErrorResponse(w, err)
		return
	}

	telemetry.RecordClientInvoiceView("ok")
	handler.RespondJSON(w, http.StatusOK, detail)
}

func viewOutcome(err error) string {
	switch domain.ErrorCode(err) {
	case domain.ENOTFOUND:
		return "not_found"
	case domain.EFORBIDDEN:
		return "not_ready"
	default:
		return "error"
	}
}

// ShowInvoice handles GET /invoice/{token}, the print-oriented HTML view.
func (h *InvoiceHandler) ShowInvoice(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	detail, err := h.access.GetByToken(r.Context(), token)
	if err != nil {
		status := handler.ErrorCodeToHTTPStatus(domain.ErrorCode(err))
		if status >= http.StatusInternalServerError {
			slog.Error("client: invoice view failed", "error", err)
		}
		if renderErr := h.renderer.RenderStatus(w, status, "notfound", map[string]string{
			"Message": domain.ErrorMessage(err),
		}); renderErr != nil {
			http.Error(w, domain.ErrorMessage(err), status)
		}
		return
	}

	if err := h.renderer.Render(w, "invoice", detail); err != nil {
		slog.Error("client: invoice render failed", "error", err, "invoice_id", detail.Invoice.ID)
	}
}
