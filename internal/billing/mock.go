package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MockProvider is a mock billing provider for testing.
// Simulates customer provisioning without calling the Stripe API.
type MockProvider struct {
	// CreateCustomerFunc allows customizing customer creation behavior
	CreateCustomerFunc func(ctx context.Context, params CreateCustomerParams) (*Customer, error)

	// GetCustomerFunc allows customizing customer retrieval behavior
	GetCustomerFunc func(ctx context.Context, customerID string) (*Customer, error)

	// GetCustomerByEmailFunc allows customizing customer lookup behavior
	GetCustomerByEmailFunc func(ctx context.Context, email string) (*Customer, error)

	// Customers stores created customers for retrieval
	Customers map[string]*Customer

	// CallLog tracks method calls for test assertions
	CallLog []string
}

// Compile-time check to ensure MockProvider implements Provider.
var _ Provider = (*MockProvider)(nil)

// NewMockProvider creates a new mock billing provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Customers: make(map[string]*Customer),
		CallLog:   []string{},
	}
}

// CreateCustomer creates a mock customer.
func (m *MockProvider) CreateCustomer(ctx context.Context, params CreateCustomerParams) (*Customer, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("CreateCustomer(%s)", params.Email))

	if m.CreateCustomerFunc != nil {
		return m.CreateCustomerFunc(ctx, params)
	}

	c := &Customer{
		ID:        "cus_mock_" + uuid.New().String()[:8],
		Email:     params.Email,
		Name:      params.Name,
		CreatedAt: time.Now(),
	}

	m.Customers[c.ID] = c
	return c, nil
}

// GetCustomer retrieves a mock customer.
func (m *MockProvider) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("GetCustomer(%s)", customerID))

	if m.GetCustomerFunc != nil {
		return m.GetCustomerFunc(ctx, customerID)
	}

	c, exists := m.Customers[customerID]
	if !exists {
		return nil, ErrCustomerNotFound
	}
	return c, nil
}

// GetCustomerByEmail looks up a mock customer by email.
func (m *MockProvider) GetCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("GetCustomerByEmail(%s)", email))

	if m.GetCustomerByEmailFunc != nil {
		return m.GetCustomerByEmailFunc(ctx, email)
	}

	for _, c := range m.Customers {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}

// CreateCount returns the number of CreateCustomer calls recorded.
func (m *MockProvider) CreateCount() int {
	count := 0
	for _, call := range m.CallLog {
		if len(call) >= 14 && call[:14] == "CreateCustomer" {
			count++
		}
	}
	return count
}
