package account

import (
	"net/http"

	"github.com/hanifn/tagihin/internal/domain"
	"github.com/hanifn/tagihin/internal/handler"
)

// BillingHandler provisions billing customers for authenticated users.
type BillingHandler struct {
	billing domain.BillingService
}

// NewBillingHandler creates a new billing handler.
func NewBillingHandler(billing domain.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// Setup handles POST /api/billing/setup. Repeated calls return the same
// customer without touching the billing provider again.
func (h *BillingHandler) Setup(w http.ResponseWriter, r *http.Request) {
	user := domain.UserFromContext(r.Context())
	if user == nil {
		handler.UnauthorizedResponse(w, r)
		return
	}

	customerID, err := h.billing.GetOrCreateCustomerID(r.Context(), user.ID, user.Email)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]string{"customerId": customerID})
}
