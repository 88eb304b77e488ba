package email

import "time"

// EmailTemplate defines the interface for email templates
type EmailTemplate interface {
	Subject() string
	TemplateName() string
}

// InvoiceIssuedEmail carries the data for the email sent to a client when
// an invoice transitions to sent. The message is written in Indonesian
// since that is the language of the client-facing surface.
type InvoiceIssuedEmail struct {
	InvoiceNumber string
	ClientName    string
	ClientEmail   string
	CompanyName   string
	Total         string // formatted amount, e.g. "Rp 220.000"
	DueDate       *time.Time
	InvoiceURL    string
}

func (e InvoiceIssuedEmail) Subject() string {
	return "Invoice " + e.InvoiceNumber + " dari " + e.CompanyName
}

func (e InvoiceIssuedEmail) TemplateName() string {
	return "invoice_issued.html"
}
