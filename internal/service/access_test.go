package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanifn/tagihin/internal/domain"
)

func TestInvoiceAccessService_GetByToken(t *testing.T) {
	ctx := context.Background()
	store := newFakeInvoiceStore()
	invoices := NewInvoiceService(store)
	access := NewInvoiceAccessService(store)
	userID := uuid.New().String()

	detail, err := invoices.CreateInvoice(ctx, userID, testParams())
	require.NoError(t, err)
	token := detail.Invoice.AccessToken

	t.Run("draft invoice is not visible", func(t *testing.T) {
		_, err := access.GetByToken(ctx, token)
		assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))
		assert.Equal(t, "Invoice belum tersedia", domain.ErrorMessage(err))
	})

	t.Run("unknown token yields not found", func(t *testing.T) {
		_, err := access.GetByToken(ctx, "abc123")
		assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
		assert.Equal(t, "Invoice tidak ditemukan", domain.ErrorMessage(err))
	})

	t.Run("empty token yields not found", func(t *testing.T) {
		_, err := access.GetByToken(ctx, "")
		assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	})

	t.Run("sent invoice returns items in insertion order", func(t *testing.T) {
		_, err := invoices.SendInvoice(ctx, userID, detail.Invoice.ID.String())
		require.NoError(t, err)

		got, err := access.GetByToken(ctx, token)
		require.NoError(t, err)

		assert.Equal(t, detail.Invoice.InvoiceNumber, got.Invoice.InvoiceNumber)
		require.Len(t, got.Items, 2)
		assert.Equal(t, "Jasa desain logo", got.Items[0].Description)
		assert.Equal(t, "Jasa pembuatan website", got.Items[1].Description)
		assert.Empty(t, got.Invoice.AccessToken)
	})

	t.Run("token match is exact", func(t *testing.T) {
		_, err := access.GetByToken(ctx, token+" ")
		assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	})

	t.Run("lookup does not mutate the invoice", func(t *testing.T) {
		before, err := invoices.GetInvoice(ctx, userID, detail.Invoice.ID.String())
		require.NoError(t, err)

		_, err = access.GetByToken(ctx, token)
		require.NoError(t, err)

		after, err := invoices.GetInvoice(ctx, userID, detail.Invoice.ID.String())
		require.NoError(t, err)
		assert.Equal(t, before.Invoice.Status, after.Invoice.Status)
		assert.Equal(t, before.Invoice.UpdatedAt, after.Invoice.UpdatedAt)
	})
}
