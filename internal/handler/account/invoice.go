package account

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hanifn/tagihin/internal/domain"
	"github.com/hanifn/tagihin/internal/handler"
	"github.com/hanifn/tagihin/internal/telemetry"
)

// InvoiceHandler handles the owner-facing invoice API.
type InvoiceHandler struct {
	invoices domain.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(invoices domain.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// Create handles POST /api/invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params domain.InvoiceParams
	if err := handler.DecodeJSON(r, &params); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	userID := domain.RequireUserID(r.Context())
	detail, err := h.invoices.CreateInvoice(r.Context(), userID.String(), params)
	if err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	telemetry.RecordInvoiceCreated(detail.Invoice.Total)
	handler.RespondJSON(w, http.StatusCreated, detail)
}

// List handles GET /api/invoices
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt32(r, "limit", 0)
	offset := queryInt32(r, "offset", 0)

	userID := domain.RequireUserID(r.Context())
	invoices, err := h.invoices.ListInvoices(r.Context(), userID.String(), limit, offset)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"invoices": invoices,
	})
}

// Get handles GET /api/invoices/{id}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := domain.RequireUserID(r.Context())
	detail, err := h.invoices.GetInvoice(r.Context(), userID.String(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, detail)
}

// Update handles PUT /api/invoices/{id}
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var params domain.InvoiceParams
	if err := handler.DecodeJSON(r, &params); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	userID := domain.RequireUserID(r.Context())
	detail, err := h.invoices.UpdateInvoice(r.Context(), userID.String(), r.PathValue("id"), params)
	if err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, detail)
}

// Delete handles DELETE /api/invoices/{id}
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := domain.RequireUserID(r.Context())
	if err := h.invoices.DeleteInvoice(r.Context(), userID.String(), r.PathValue("id")); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Send handles POST /api/invoices/{id}/send
func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.invoices.SendInvoice)
}

// MarkPaid handles POST /api/invoices/{id}/pay
func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.invoices.MarkInvoicePaid)
}

// Cancel handles POST /api/invoices/{id}/cancel
func (h *InvoiceHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.invoices.CancelInvoice)
}

func (h *InvoiceHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID, invoiceID string) (*domain.Invoice, error)) {
	userID := domain.RequireUserID(r.Context())
	inv, err := fn(r.Context(), userID.String(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	telemetry.RecordInvoiceTransition(inv.Status)
	handler.RespondJSON(w, http.StatusOK, inv)
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
