package service

import (
	"context"

	"github.com/hanifn/tagihin/internal/domain"
)

// InvoiceAccessService is re-exported from domain for convenience.
type InvoiceAccessService = domain.InvoiceAccessService

type invoiceAccessService struct {
	store domain.InvoiceStore
}

// NewInvoiceAccessService creates the public token-gated read path.
func NewInvoiceAccessService(store domain.InvoiceStore) InvoiceAccessService {
	return &invoiceAccessService{store: store}
}

// GetByToken resolves an access token to an invoice with items.
// The lookup is an exact match with no side effects: empty and unknown
// tokens are indistinguishable to the caller, and drafts stay hidden.
func (s *invoiceAccessService) GetByToken(ctx context.Context, token string) (*domain.InvoiceDetail, error) {
	if token == "" {
		return nil, domain.ErrInvoiceNotFound
	}

	inv, err := s.store.GetInvoiceByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if inv.Status == domain.InvoiceStatusDraft {
		return nil, domain.ErrInvoiceNotReady
	}

	items, err := s.store.ListInvoiceItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	// The access token is what the caller already holds; there is no
	// reason to echo it back.
	inv.AccessToken = ""

	return &domain.InvoiceDetail{Invoice: *inv, Items: items}, nil
}
