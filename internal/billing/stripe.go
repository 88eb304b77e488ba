package billing

import (
	"context"
	"errors"
	"time"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/customer"
)

// StripeProvider implements Provider using the Stripe API.
type StripeProvider struct {
	config StripeConfig
}

// Compile-time check to ensure StripeProvider implements Provider.
var _ Provider = (*StripeProvider)(nil)

// NewStripeProvider creates a new Stripe billing provider and sets the
// package-level API key.
func NewStripeProvider(config StripeConfig) (*StripeProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	stripe.Key = config.APIKey

	return &StripeProvider{config: config}, nil
}

// CreateCustomer creates a Stripe customer.
func (s *StripeProvider) CreateCustomer(ctx context.Context, params CreateCustomerParams) (*Customer, error) {
	customerParams := &stripe.CustomerParams{
		Email: stripe.String(params.Email),
	}
	customerParams.Context = ctx

	if params.Name != "" {
		customerParams.Name = stripe.String(params.Name)
	}
	if params.Description != "" {
		customerParams.Description = stripe.String(params.Description)
	}
	for k, v := range params.Metadata {
		customerParams.AddMetadata(k, v)
	}

	c, err := customer.New(customerParams)
	if err != nil {
		return nil, wrapStripeError(err)
	}

	return mapStripeCustomer(c), nil
}

// GetCustomer retrieves a Stripe customer by ID.
func (s *StripeProvider) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	c, err := customer.Get(customerID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return nil, ErrCustomerNotFound
		}
		return nil, wrapStripeError(err)
	}

	return mapStripeCustomer(c), nil
}

// GetCustomerByEmail searches for a Stripe customer by email.
// Returns nil, nil when no customer matches.
func (s *StripeProvider) GetCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	listParams := &stripe.CustomerListParams{
		Email: stripe.String(email),
	}
	listParams.Context = ctx
	listParams.Limit = stripe.Int64(1)

	iter := customer.List(listParams)
	for iter.Next() {
		return mapStripeCustomer(iter.Customer()), nil
	}
	if err := iter.Err(); err != nil {
		return nil, wrapStripeError(err)
	}

	return nil, nil
}

func mapStripeCustomer(c *stripe.Customer) *Customer {
	return &Customer{
		ID:        c.ID,
		Email:     c.Email,
		Name:      c.Name,
		CreatedAt: time.Unix(c.Created, 0),
	}
}

func wrapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &StripeError{
			Message:       stripeErr.Msg,
			Code:          string(stripeErr.Code),
			RequestID:     stripeErr.RequestID,
			OriginalError: err,
		}
	}
	return err
}
