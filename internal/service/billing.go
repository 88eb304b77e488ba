package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hanifn/tagihin/internal/billing"
	"github.com/hanifn/tagihin/internal/domain"
	"github.com/hanifn/tagihin/internal/telemetry"
)

// BillingService is re-exported from domain for convenience.
type BillingService = domain.BillingService

type billingService struct {
	subscriptions domain.SubscriptionStore
	provider      billing.Provider
	logger        *slog.Logger
}

// NewBillingService creates a new BillingService instance.
func NewBillingService(subscriptions domain.SubscriptionStore, provider billing.Provider, logger *slog.Logger) BillingService {
	return &billingService{
		subscriptions: subscriptions,
		provider:      provider,
		logger:        logger.With("service", "billing"),
	}
}

// GetOrCreateCustomerID returns the user's billing customer ID,
// creating the remote customer on first call. The subscriptions table
// holds one row per user, so concurrent setups converge: whichever
// write lands first wins and the other caller reads back the stored ID.
func (s *billingService) GetOrCreateCustomerID(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	sub, err := s.subscriptions.GetSubscriptionByUser(ctx, userID)
	if err != nil && !domain.IsCode(err, domain.ENOTFOUND) {
		return "", fmt.Errorf("failed to look up subscription: %w", err)
	}
	if sub != nil && sub.StripeCustomerID != "" {
		return sub.StripeCustomerID, nil
	}

	// Reconcile first: a provider customer can exist without a local
	// row, e.g. after a restore from backup. Reuse it instead of
	// creating a duplicate.
	customer, err := s.provider.GetCustomerByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("billing customer lookup failed, creating a new one",
			"user_id", userID.String(), "error", err)
		customer = nil
	}

	if customer == nil {
		customer, err = s.provider.CreateCustomer(ctx, billing.CreateCustomerParams{
			Email:    email,
			Metadata: map[string]string{"user_id": userID.String()},
		})
		if err != nil {
			return "", domain.WrapError(err, domain.EINTERNAL, "billing.setup", "Failed to create billing customer")
		}
		telemetry.RecordBillingCustomerCreated()
	}

	stored, err := s.subscriptions.UpsertSubscription(ctx, userID, customer.ID)
	if err != nil {
		return "", fmt.Errorf("failed to store billing customer: %w", err)
	}

	if stored.StripeCustomerID != customer.ID {
		// Lost the race to a concurrent setup. The remote customer we
		// created is orphaned; log it so it can be cleaned up.
		s.logger.Warn("discarding duplicate billing customer",
			"user_id", userID.String(),
			"kept", stored.StripeCustomerID,
			"orphaned", customer.ID)
	}

	return stored.StripeCustomerID, nil
}
