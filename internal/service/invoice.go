package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hanifn/tagihin/internal/domain"
)

// InvoiceService is re-exported from domain for convenience.
type InvoiceService = domain.InvoiceService

// Type aliases so handlers can refer to service types uniformly.
type (
	InvoiceParams     = domain.InvoiceParams
	InvoiceItemParams = domain.InvoiceItemParams
	InvoiceDetail     = domain.InvoiceDetail
)

// numberAttempts bounds retries when two invoices race for the same
// per-month sequence number.
const numberAttempts = 3

type invoiceService struct {
	store    domain.InvoiceStore
	notifier InvoiceNotifier
	now      func() time.Time
}

// InvoiceServiceOption configures optional invoice service behavior.
type InvoiceServiceOption func(*invoiceService)

// WithInvoiceNotifier enables client notification when an invoice is sent.
func WithInvoiceNotifier(n InvoiceNotifier) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.notifier = n
	}
}

// NewInvoiceService creates a new InvoiceService instance.
func NewInvoiceService(store domain.InvoiceStore, opts ...InvoiceServiceOption) InvoiceService {
	s := &invoiceService{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInvoice validates params, computes totals, assigns an invoice
// number and access token, and persists the invoice with its items.
func (s *invoiceService) CreateInvoice(ctx context.Context, userID string, params InvoiceParams) (*InvoiceDetail, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}

	if err := domain.ValidateInvoiceParams("invoice.create", params); err != nil {
		return nil, err
	}

	token, err := GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	issueDate := params.IssueDate
	if issueDate.IsZero() {
		issueDate = s.now()
	}

	inv := &domain.Invoice{
		UserID:      ownerID,
		AccessToken: token,
		Status:      domain.InvoiceStatusDraft,
		IssueDate:   issueDate,
	}
	applyParams(inv, params)
	items := buildItems(params.Items, params.TaxRate, inv)

	// The per-month sequence is read outside the insert, so two creates
	// can race for the same number. The unique constraint catches the
	// loser and we take the next sequence.
	prefix := fmt.Sprintf("INV-%s-", issueDate.Format("200601"))
	for attempt := 0; attempt < numberAttempts; attempt++ {
		seq, err := s.store.NextInvoiceSequence(ctx, prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to generate invoice number: %w", err)
		}
		inv.InvoiceNumber = fmt.Sprintf("%s%04d", prefix, seq)

		err = s.store.CreateInvoice(ctx, inv, items)
		if err == nil {
			return &domain.InvoiceDetail{Invoice: *inv, Items: items}, nil
		}
		if !errors.Is(err, domain.ErrDuplicateInvoiceNumber) {
			return nil, err
		}
	}

	return nil, ErrInvoiceNumberGeneration
}

// GetInvoice retrieves an invoice owned by userID with full details.
func (s *invoiceService) GetInvoice(ctx context.Context, userID, invoiceID string) (*InvoiceDetail, error) {
	inv, err := s.getOwned(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}

	items, err := s.store.ListInvoiceItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	return &domain.InvoiceDetail{Invoice: *inv, Items: items}, nil
}

// ListInvoices lists invoices owned by userID, newest first.
func (s *invoiceService) ListInvoices(ctx context.Context, userID string, limit, offset int32) ([]domain.Invoice, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return s.store.ListInvoicesByUser(ctx, ownerID, limit, offset)
}

// UpdateInvoice replaces invoice fields and the item set. Only draft
// and sent invoices are editable.
func (s *invoiceService) UpdateInvoice(ctx context.Context, userID, invoiceID string, params InvoiceParams) (*InvoiceDetail, error) {
	inv, err := s.getOwned(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}

	if inv.Status != domain.InvoiceStatusDraft && inv.Status != domain.InvoiceStatusSent {
		return nil, domain.ErrInvoiceNotEditable
	}

	if err := domain.ValidateInvoiceParams("invoice.update", params); err != nil {
		return nil, err
	}

	if !params.IssueDate.IsZero() {
		inv.IssueDate = params.IssueDate
	}
	applyParams(inv, params)
	items := buildItems(params.Items, params.TaxRate, inv)

	if err := s.store.UpdateInvoice(ctx, inv, items); err != nil {
		return nil, err
	}

	return &domain.InvoiceDetail{Invoice: *inv, Items: items}, nil
}

// DeleteInvoice removes a draft invoice and its items.
func (s *invoiceService) DeleteInvoice(ctx context.Context, userID, invoiceID string) error {
	inv, err := s.getOwned(ctx, userID, invoiceID)
	if err != nil {
		return err
	}

	if inv.Status != domain.InvoiceStatusDraft {
		return domain.ErrInvoiceNotDeletable
	}

	return s.store.DeleteInvoice(ctx, inv.ID)
}

// SendInvoice transitions a draft invoice to sent.
func (s *invoiceService) SendInvoice(ctx context.Context, userID, invoiceID string) (*domain.Invoice, error) {
	inv, err := s.transition(ctx, userID, invoiceID, domain.InvoiceStatusSent)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.InvoiceSent(ctx, inv)
	}
	return inv, nil
}

// MarkInvoicePaid transitions a sent or overdue invoice to paid.
func (s *invoiceService) MarkInvoicePaid(ctx context.Context, userID, invoiceID string) (*domain.Invoice, error) {
	return s.transition(ctx, userID, invoiceID, domain.InvoiceStatusPaid)
}

// CancelInvoice transitions any non-final invoice to canceled.
func (s *invoiceService) CancelInvoice(ctx context.Context, userID, invoiceID string) (*domain.Invoice, error) {
	return s.transition(ctx, userID, invoiceID, domain.InvoiceStatusCanceled)
}

// MarkInvoicesOverdue updates status for sent invoices past due date.
func (s *invoiceService) MarkInvoicesOverdue(ctx context.Context) (int, error) {
	return s.store.MarkInvoicesOverdue(ctx, s.now())
}

func (s *invoiceService) transition(ctx context.Context, userID, invoiceID, to string) (*domain.Invoice, error) {
	inv, err := s.getOwned(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(inv.Status, to) {
		return nil, domain.Conflict("invoice.transition",
			fmt.Sprintf("Cannot move invoice from %s to %s", inv.Status, to))
	}

	var paidAt *time.Time
	if to == domain.InvoiceStatusPaid {
		now := s.now()
		paidAt = &now
	} else {
		paidAt = inv.PaidAt
	}

	if err := s.store.UpdateInvoiceStatus(ctx, inv.ID, to, paidAt); err != nil {
		return nil, err
	}

	inv.Status = to
	inv.PaidAt = paidAt
	return inv, nil
}

// getOwned fetches an invoice and verifies ownership. Invoices of other
// users are reported as not found rather than forbidden.
func (s *invoiceService) getOwned(ctx context.Context, userID, invoiceID string) (*domain.Invoice, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	id, err := uuid.Parse(invoiceID)
	if err != nil {
		return nil, ErrInvalidInvoiceID
	}

	inv, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.UserID != ownerID {
		return nil, domain.ErrInvoiceNotFound
	}
	return inv, nil
}

func applyParams(inv *domain.Invoice, params InvoiceParams) {
	inv.DueDate = params.DueDate
	inv.CompanyName = params.CompanyName
	inv.CompanyEmail = params.CompanyEmail
	inv.CompanyPhone = params.CompanyPhone
	inv.CompanyAddress = params.CompanyAddress
	inv.ClientName = params.ClientName
	inv.ClientEmail = params.ClientEmail
	inv.ClientPhone = params.ClientPhone
	inv.ClientAddress = params.ClientAddress
	inv.Notes = params.Notes
	inv.TaxRate = params.TaxRate
}

// buildItems converts submitted items and recomputes the derived totals
// onto inv. Submitted totals are never trusted.
func buildItems(itemParams []InvoiceItemParams, taxRate float64, inv *domain.Invoice) []domain.InvoiceItem {
	items := make([]domain.InvoiceItem, len(itemParams))
	for i, p := range itemParams {
		items[i] = domain.InvoiceItem{
			Description: p.Description,
			Quantity:    p.Quantity,
			Price:       p.Price,
			Position:    int32(i),
		}
	}

	subtotal, taxAmount, total, lineAmounts := domain.ComputeTotals(items, taxRate)
	for i := range items {
		items[i].Amount = lineAmounts[i]
	}
	inv.Subtotal = subtotal
	inv.TaxAmount = taxAmount
	inv.Total = total

	return items
}
