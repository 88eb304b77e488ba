package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanifn/tagihin/internal/billing"
	"github.com/hanifn/tagihin/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBillingService_GetOrCreateCustomerID(t *testing.T) {
	ctx := context.Background()

	t.Run("creates customer on first call only", func(t *testing.T) {
		subs := newFakeSubscriptionStore()
		provider := billing.NewMockProvider()
		svc := NewBillingService(subs, provider, discardLogger())
		userID := uuid.New()

		first, err := svc.GetOrCreateCustomerID(ctx, userID, "budi@example.com")
		require.NoError(t, err)
		require.NotEmpty(t, first)

		second, err := svc.GetOrCreateCustomerID(ctx, userID, "budi@example.com")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, provider.CreateCount())
	})

	t.Run("distinct users get distinct customers", func(t *testing.T) {
		subs := newFakeSubscriptionStore()
		provider := billing.NewMockProvider()
		svc := NewBillingService(subs, provider, discardLogger())

		a, err := svc.GetOrCreateCustomerID(ctx, uuid.New(), "a@example.com")
		require.NoError(t, err)
		b, err := svc.GetOrCreateCustomerID(ctx, uuid.New(), "b@example.com")
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
		assert.Equal(t, 2, provider.CreateCount())
	})

	t.Run("reuses provider customer with matching email", func(t *testing.T) {
		subs := newFakeSubscriptionStore()
		provider := billing.NewMockProvider()
		svc := NewBillingService(subs, provider, discardLogger())

		// A customer exists at the provider but the local row is gone,
		// as after a restore from backup.
		existing, err := provider.CreateCustomer(ctx, billing.CreateCustomerParams{Email: "budi@example.com"})
		require.NoError(t, err)

		got, err := svc.GetOrCreateCustomerID(ctx, uuid.New(), "budi@example.com")
		require.NoError(t, err)
		assert.Equal(t, existing.ID, got)
		assert.Equal(t, 1, provider.CreateCount())
	})

	t.Run("lookup failure falls back to creating", func(t *testing.T) {
		subs := newFakeSubscriptionStore()
		provider := billing.NewMockProvider()
		provider.GetCustomerByEmailFunc = func(ctx context.Context, email string) (*billing.Customer, error) {
			return nil, errors.New("stripe unavailable")
		}
		svc := NewBillingService(subs, provider, discardLogger())

		got, err := svc.GetOrCreateCustomerID(ctx, uuid.New(), "budi@example.com")
		require.NoError(t, err)
		assert.NotEmpty(t, got)
		assert.Equal(t, 1, provider.CreateCount())
	})

	t.Run("concurrent setup converges on stored id", func(t *testing.T) {
		subs := newFakeSubscriptionStore()
		provider := billing.NewMockProvider()
		svc := NewBillingService(subs, provider, discardLogger())
		userID := uuid.New()

		// Simulate a racing setup that already stored a customer ID
		// between our lookup and our upsert.
		_, err := subs.UpsertSubscription(ctx, userID, "cus_existing")
		require.NoError(t, err)

		got, err := svc.GetOrCreateCustomerID(ctx, userID, "budi@example.com")
		require.NoError(t, err)
		assert.Equal(t, "cus_existing", got)
	})

	t.Run("provider failure surfaces as internal error", func(t *testing.T) {
		subs := newFakeSubscriptionStore()
		provider := billing.NewMockProvider()
		provider.CreateCustomerFunc = func(ctx context.Context, params billing.CreateCustomerParams) (*billing.Customer, error) {
			return nil, errors.New("stripe unavailable")
		}
		svc := NewBillingService(subs, provider, discardLogger())

		_, err := svc.GetOrCreateCustomerID(ctx, uuid.New(), "budi@example.com")
		assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
	})
}
