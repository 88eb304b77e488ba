package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice status values. Stored lowercase, matching the CHECK constraint.
const (
	InvoiceStatusDraft    = "draft"
	InvoiceStatusSent     = "sent"
	InvoiceStatusPaid     = "paid"
	InvoiceStatusOverdue  = "overdue"
	InvoiceStatusCanceled = "canceled"
)

// Invoice-related domain errors.
var (
	ErrInvoiceNotFound     = &Error{Code: ENOTFOUND, Message: "Invoice tidak ditemukan"}
	ErrInvoiceNotReady     = &Error{Code: EFORBIDDEN, Message: "Invoice belum tersedia"}
	ErrInvoiceNotEditable  = &Error{Code: ECONFLICT, Message: "Only draft or sent invoices can be edited"}
	ErrInvoiceNotDeletable = &Error{Code: ECONFLICT, Message: "Only draft invoices can be deleted"}
	ErrInvoiceNotDraft     = &Error{Code: ECONFLICT, Message: "Invoice must be in draft status"}
	ErrInvoiceFinal        = &Error{Code: ECONFLICT, Message: "Invoice is already paid or canceled"}
	ErrInvoiceNotPayable   = &Error{Code: ECONFLICT, Message: "Invoice must be sent or overdue to record payment"}

	// ErrDuplicateInvoiceNumber signals a lost race on the per-month
	// invoice number sequence. The service retries with a fresh sequence.
	ErrDuplicateInvoiceNumber = &Error{Code: ECONFLICT, Message: "Invoice number already exists"}
)

// Invoice is a billable document owned by a user and shared with a client
// through an unguessable access token.
type Invoice struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"userId"`
	InvoiceNumber string     `json:"invoiceNumber"`
	AccessToken   string     `json:"accessToken,omitempty"`
	Status        string     `json:"status"`
	IssueDate     time.Time  `json:"issueDate"`
	DueDate       *time.Time `json:"dueDate,omitempty"`

	CompanyName    string `json:"companyName"`
	CompanyEmail   string `json:"companyEmail"`
	CompanyPhone   string `json:"companyPhone,omitempty"`
	CompanyAddress string `json:"companyAddress,omitempty"`

	ClientName    string `json:"clientName"`
	ClientEmail   string `json:"clientEmail"`
	ClientPhone   string `json:"clientPhone,omitempty"`
	ClientAddress string `json:"clientAddress,omitempty"`

	Notes string `json:"notes,omitempty"`

	// Amounts are whole Rupiah. Derived fields are recomputed server-side
	// on every write; client-supplied totals are ignored.
	TaxRate   float64 `json:"taxRate"`
	Subtotal  int64   `json:"subtotal"`
	TaxAmount int64   `json:"taxAmount"`
	Total     int64   `json:"total"`

	PaidAt    *time.Time `json:"paidAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// InvoiceItem is a single line on an invoice. Position preserves the
// order items were submitted in.
type InvoiceItem struct {
	ID          uuid.UUID `json:"id"`
	InvoiceID   uuid.UUID `json:"invoiceId"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	Price       int64     `json:"price"`
	Amount      int64     `json:"amount"`
	Position    int32     `json:"position"`
}

// InvoiceDetail aggregates an invoice with its line items.
type InvoiceDetail struct {
	Invoice Invoice       `json:"invoice"`
	Items   []InvoiceItem `json:"items"`
}

// InvoiceItemParams is one submitted line item.
type InvoiceItemParams struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       int64   `json:"price"`
}

// InvoiceParams contains the writable fields for creating or updating
// an invoice.
type InvoiceParams struct {
	IssueDate time.Time  `json:"issueDate"`
	DueDate   *time.Time `json:"dueDate"`

	CompanyName    string `json:"companyName"`
	CompanyEmail   string `json:"companyEmail"`
	CompanyPhone   string `json:"companyPhone"`
	CompanyAddress string `json:"companyAddress"`

	ClientName    string `json:"clientName"`
	ClientEmail   string `json:"clientEmail"`
	ClientPhone   string `json:"clientPhone"`
	ClientAddress string `json:"clientAddress"`

	Notes   string              `json:"notes"`
	TaxRate float64             `json:"taxRate"`
	Items   []InvoiceItemParams `json:"items"`
}

// InvoiceService manages invoice lifecycle for authenticated owners.
type InvoiceService interface {
	// CreateInvoice validates params, computes totals, assigns an invoice
	// number and access token, and persists the invoice with its items.
	CreateInvoice(ctx context.Context, userID string, params InvoiceParams) (*InvoiceDetail, error)

	// GetInvoice retrieves an invoice owned by userID with full details.
	GetInvoice(ctx context.Context, userID, invoiceID string) (*InvoiceDetail, error)

	// ListInvoices lists invoices owned by userID, newest first.
	ListInvoices(ctx context.Context, userID string, limit, offset int32) ([]Invoice, error)

	// UpdateInvoice replaces the invoice fields and item set.
	// Only draft and sent invoices are editable.
	UpdateInvoice(ctx context.Context, userID, invoiceID string, params InvoiceParams) (*InvoiceDetail, error)

	// DeleteInvoice removes a draft invoice and its items.
	DeleteInvoice(ctx context.Context, userID, invoiceID string) error

	// SendInvoice transitions a draft invoice to sent, making it visible
	// through its access token.
	SendInvoice(ctx context.Context, userID, invoiceID string) (*Invoice, error)

	// MarkInvoicePaid transitions a sent or overdue invoice to paid and
	// records the payment time.
	MarkInvoicePaid(ctx context.Context, userID, invoiceID string) (*Invoice, error)

	// CancelInvoice transitions any non-final invoice to canceled.
	CancelInvoice(ctx context.Context, userID, invoiceID string) (*Invoice, error)

	// MarkInvoicesOverdue updates status for sent invoices past due date.
	// Called by the background worker. Returns the number updated.
	MarkInvoicesOverdue(ctx context.Context) (int, error)
}

// InvoiceAccessService is the public, token-gated read path. It never
// mutates anything.
type InvoiceAccessService interface {
	// GetByToken resolves an access token to an invoice with items.
	// Unknown tokens yield ErrInvoiceNotFound; draft invoices yield
	// ErrInvoiceNotReady. Token matching is exact.
	GetByToken(ctx context.Context, token string) (*InvoiceDetail, error)
}

// InvoiceStore is the persistence surface for invoices.
type InvoiceStore interface {
	CreateInvoice(ctx context.Context, inv *Invoice, items []InvoiceItem) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	GetInvoiceByToken(ctx context.Context, token string) (*Invoice, error)
	ListInvoiceItems(ctx context.Context, invoiceID uuid.UUID) ([]InvoiceItem, error)
	ListInvoicesByUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]Invoice, error)
	UpdateInvoice(ctx context.Context, inv *Invoice, items []InvoiceItem) error
	UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status string, paidAt *time.Time) error
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
	NextInvoiceSequence(ctx context.Context, prefix string) (int, error)
	MarkInvoicesOverdue(ctx context.Context, now time.Time) (int, error)
}

// CanTransition reports whether an invoice may move from one status to
// another. Paid and canceled are terminal.
func CanTransition(from, to string) bool {
	switch from {
	case InvoiceStatusDraft:
		return to == InvoiceStatusSent || to == InvoiceStatusCanceled
	case InvoiceStatusSent:
		return to == InvoiceStatusPaid || to == InvoiceStatusOverdue || to == InvoiceStatusCanceled
	case InvoiceStatusOverdue:
		return to == InvoiceStatusPaid || to == InvoiceStatusCanceled
	default:
		return false
	}
}

// ComputeTotals derives line amounts and invoice totals from items and
// the tax rate. Amounts are rounded to whole Rupiah per line, then the
// tax is computed on the subtotal.
func ComputeTotals(items []InvoiceItem, taxRate float64) (subtotal, taxAmount, total int64, lineAmounts []int64) {
	sub := decimal.Zero
	lineAmounts = make([]int64, len(items))
	for i, item := range items {
		amount := decimal.NewFromFloat(item.Quantity).
			Mul(decimal.NewFromInt(item.Price)).
			Round(0)
		lineAmounts[i] = amount.IntPart()
		sub = sub.Add(amount)
	}
	tax := sub.Mul(decimal.NewFromFloat(taxRate)).Round(0)
	return sub.IntPart(), tax.IntPart(), sub.Add(tax).IntPart(), lineAmounts
}

// ValidateInvoiceParams checks the writable invoice fields. Invalid
// items are rejected, never clamped.
func ValidateInvoiceParams(op string, params InvoiceParams) error {
	var err error
	if strings.TrimSpace(params.CompanyName) == "" {
		err = AddFieldError(err, "companyName", "Company name is required")
	}
	if strings.TrimSpace(params.CompanyEmail) == "" {
		err = AddFieldError(err, "companyEmail", "Company email is required")
	}
	if strings.TrimSpace(params.ClientName) == "" {
		err = AddFieldError(err, "clientName", "Client name is required")
	}
	if strings.TrimSpace(params.ClientEmail) == "" {
		err = AddFieldError(err, "clientEmail", "Client email is required")
	}
	if params.TaxRate < 0 || params.TaxRate > 1 {
		err = AddFieldError(err, "taxRate", "Tax rate must be between 0 and 1")
	}
	if len(params.Items) == 0 {
		err = AddFieldError(err, "items", "At least one item is required")
	}
	for _, item := range params.Items {
		if strings.TrimSpace(item.Description) == "" {
			err = AddFieldError(err, "items", "Item description is required")
		}
		if item.Quantity <= 0 {
			err = AddFieldError(err, "items", "Item quantity must be greater than zero")
		}
		if item.Price < 0 {
			err = AddFieldError(err, "items", "Item price cannot be negative")
		}
	}
	if err != nil {
		if ve, ok := err.(*ValidationError); ok {
			ve.Op = op
		}
		return err
	}
	return nil
}
