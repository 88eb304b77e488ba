package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanifn/tagihin/internal/domain"
)

// SubscriptionStore implements domain.SubscriptionStore using PostgreSQL.
type SubscriptionStore struct {
	pool *pgxpool.Pool
}

// Compile-time check to ensure SubscriptionStore implements domain.SubscriptionStore.
var _ domain.SubscriptionStore = (*SubscriptionStore)(nil)

// NewSubscriptionStore creates a new SubscriptionStore instance.
func NewSubscriptionStore(pool *pgxpool.Pool) *SubscriptionStore {
	return &SubscriptionStore{pool: pool}
}

// GetSubscriptionByUser retrieves the subscription row for a user.
func (s *SubscriptionStore) GetSubscriptionByUser(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, stripe_customer_id, created_at, updated_at
		FROM subscriptions WHERE user_id = $1`, userID,
	)

	var sub domain.Subscription
	err := row.Scan(&sub.ID, &sub.UserID, &sub.StripeCustomerID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &sub, nil
}

// UpsertSubscription stores the Stripe customer ID for a user. The
// unique constraint on user_id makes concurrent setups converge: the
// first write wins and later calls read back the stored ID.
func (s *SubscriptionStore) UpsertSubscription(ctx context.Context, userID uuid.UUID, stripeCustomerID string) (*domain.Subscription, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO subscriptions (user_id, stripe_customer_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			stripe_customer_id = CASE
				WHEN subscriptions.stripe_customer_id = '' THEN EXCLUDED.stripe_customer_id
				ELSE subscriptions.stripe_customer_id
			END,
			updated_at = now()
		RETURNING id, user_id, stripe_customer_id, created_at, updated_at`,
		userID, stripeCustomerID,
	)

	var sub domain.Subscription
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.StripeCustomerID, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return &sub, nil
}
