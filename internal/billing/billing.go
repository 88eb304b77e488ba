// Package billing abstracts the payment provider used to provision
// billing customers for account holders.
package billing

import (
	"context"
	"time"
)

// Provider defines the interface for the billing backend.
// Implementations can use Stripe, Xendit, Midtrans, etc.
type Provider interface {
	// CreateCustomer creates a customer record in the billing provider.
	CreateCustomer(ctx context.Context, params CreateCustomerParams) (*Customer, error)

	// GetCustomer retrieves an existing customer by provider ID.
	GetCustomer(ctx context.Context, customerID string) (*Customer, error)

	// GetCustomerByEmail searches for an existing customer by email.
	// Used for reconciliation - linking existing provider customers to
	// local users. Returns nil, nil if no customer found (not an error).
	GetCustomerByEmail(ctx context.Context, email string) (*Customer, error)
}

// CreateCustomerParams contains parameters for creating a customer.
type CreateCustomerParams struct {
	Email       string
	Name        string
	Description string
	Metadata    map[string]string
}

// Customer represents a billing customer.
type Customer struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}
