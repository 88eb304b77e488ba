package email

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanifn/tagihin/web/templates"
)

// mockSender captures outgoing messages for inspection.
type mockSender struct {
	sent []*Email
	err  error
}

func (m *mockSender) Send(ctx context.Context, email *Email) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, email)
	return "msg-1", nil
}

func TestSendInvoiceIssued(t *testing.T) {
	sender := &mockSender{}
	svc, err := NewService(sender, "noreply@tagihin.id", "Tagihin", templates.FS)
	require.NoError(t, err)

	due := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)
	err = svc.SendInvoiceIssued(context.Background(), InvoiceIssuedEmail{
		InvoiceNumber: "INV-202608-0001",
		ClientName:    "Budi Santoso",
		ClientEmail:   "budi@majubersama.co.id",
		CompanyName:   "Studio Kreatif",
		Total:         "Rp 220.000",
		DueDate:       &due,
		InvoiceURL:    "https://tagihin.id/invoice/abc123",
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, []string{"budi@majubersama.co.id"}, msg.To)
	assert.Equal(t, "Tagihin <noreply@tagihin.id>", msg.From)
	assert.Equal(t, "Invoice INV-202608-0001 dari Studio Kreatif", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "Budi Santoso")
	assert.Contains(t, msg.HTMLBody, "Rp 220.000")
	assert.Contains(t, msg.HTMLBody, "https://tagihin.id/invoice/abc123")
	assert.Contains(t, msg.HTMLBody, "15 September 2026")

	// Plain text variant is derived from the HTML body
	assert.Contains(t, msg.TextBody, "Rp 220.000")
	assert.NotContains(t, msg.TextBody, "<p>")
}

func TestSendInvoiceIssued_NoDueDate(t *testing.T) {
	sender := &mockSender{}
	svc, err := NewService(sender, "noreply@tagihin.id", "Tagihin", templates.FS)
	require.NoError(t, err)

	err = svc.SendInvoiceIssued(context.Background(), InvoiceIssuedEmail{
		InvoiceNumber: "INV-202608-0002",
		ClientName:    "Sari",
		ClientEmail:   "sari@example.com",
		CompanyName:   "Studio Kreatif",
		Total:         "Rp 500",
		InvoiceURL:    "https://tagihin.id/invoice/def456",
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].HTMLBody, "Jatuh tempo: <strong>-</strong>")
}

func TestSendInvoiceIssued_MissingRecipient(t *testing.T) {
	svc, err := NewService(&mockSender{}, "noreply@tagihin.id", "Tagihin", templates.FS)
	require.NoError(t, err)

	err = svc.SendInvoiceIssued(context.Background(), InvoiceIssuedEmail{
		InvoiceNumber: "INV-202608-0003",
	})
	assert.ErrorIs(t, err, ErrInvalidToAddress)
}

func TestGeneratePlainText(t *testing.T) {
	text := generatePlainText("<p>Halo <strong>Budi</strong>,</p><p>Total: Rp 500 &amp; lunas</p>")
	assert.Equal(t, "Halo Budi,\nTotal: Rp 500 & lunas", text)
}
