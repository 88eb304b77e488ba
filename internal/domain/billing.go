package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Subscription links a user to their billing customer record.
// StripeCustomerID is empty until billing setup runs for the user.
type Subscription struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"userId"`
	StripeCustomerID string    `json:"stripeCustomerId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// BillingService provisions billing customers lazily and idempotently.
type BillingService interface {
	// GetOrCreateCustomerID returns the user's billing customer ID,
	// creating the remote customer on first call. Repeated calls return
	// the stored ID without touching the billing provider.
	GetOrCreateCustomerID(ctx context.Context, userID uuid.UUID, email string) (string, error)
}

// SubscriptionStore is the persistence surface for subscriptions.
// UpsertSubscription must respect the one-row-per-user constraint so
// concurrent billing setups converge on a single customer ID.
type SubscriptionStore interface {
	GetSubscriptionByUser(ctx context.Context, userID uuid.UUID) (*Subscription, error)
	UpsertSubscription(ctx context.Context, userID uuid.UUID, stripeCustomerID string) (*Subscription, error)
}

// Billing-specific errors.
var (
	ErrSubscriptionNotFound = &Error{Code: ENOTFOUND, Message: "Subscription not found"}
)
