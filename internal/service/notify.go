package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hanifn/tagihin/internal/domain"
	"github.com/hanifn/tagihin/internal/email"
)

// InvoiceNotifier is told about invoices that were just sent so the
// client can be reached with the shareable link. Delivery is best
// effort: the status transition has already been persisted.
type InvoiceNotifier interface {
	InvoiceSent(ctx context.Context, inv *domain.Invoice)
}

type emailNotifier struct {
	mailer  *email.Service
	baseURL string
	logger  *slog.Logger
}

// NewEmailNotifier returns an InvoiceNotifier that emails the client a
// link to the print view. Send failures are logged, never surfaced.
func NewEmailNotifier(mailer *email.Service, baseURL string, logger *slog.Logger) InvoiceNotifier {
	return &emailNotifier{
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

func (n *emailNotifier) InvoiceSent(ctx context.Context, inv *domain.Invoice) {
	data := email.InvoiceIssuedEmail{
		InvoiceNumber: inv.InvoiceNumber,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		CompanyName:   inv.CompanyName,
		Total:         domain.FormatRupiah(inv.Total),
		DueDate:       inv.DueDate,
		InvoiceURL:    n.baseURL + "/invoice/" + inv.AccessToken,
	}

	if err := n.mailer.SendInvoiceIssued(ctx, data); err != nil {
		n.logger.Error("Failed to email invoice link",
			"invoice_number", inv.InvoiceNumber,
			"client_email", inv.ClientEmail,
			"error", err,
		)
	}
}
