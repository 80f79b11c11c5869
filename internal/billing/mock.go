// internal/billing/mock.go
package billing

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockProvider is a test double that records calls and returns configurable
// results.
type MockProvider struct {
	mu sync.Mutex

	// Customers maps companyID -> customerID.
	Customers map[string]string
	// Subscriptions maps subscriptionID -> current provider state.
	Subscriptions map[string]*Subscription
	// ActiveByCustomer maps customerID -> subscriptionIDs returned by
	// ListActiveSubscriptions.
	ActiveByCustomer map[string][]string
	// PaymentLinks collects the price ids links were created for.
	PaymentLinks []string
	// SwappedPrices collects the price ids passed to SwapSubscriptionItem.
	SwappedPrices []string

	// Error fields allow tests to inject failures.
	CreateCustomerErr  error
	CheckoutSessionErr error
	CancelErr          error
	ReactivateErr      error
	ListErr            error
	SwapErr            error
	PaymentLinkErr     error

	// PeriodStart/PeriodEnd seed the period bounds on provider responses.
	PeriodStart time.Time
	PeriodEnd   time.Time

	nextCustomerSeq int
	nextSubSeq      int
	nextLinkSeq     int
}

// NewMockProvider creates a MockProvider ready for use.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Customers:        make(map[string]string),
		Subscriptions:    make(map[string]*Subscription),
		ActiveByCustomer: make(map[string][]string),
	}
}

// Seed registers an existing active subscription for a customer.
func (m *MockProvider) Seed(customerID, subscriptionID, itemID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Subscriptions[subscriptionID] = &Subscription{
		ID:                 subscriptionID,
		ItemID:             itemID,
		Status:             "active",
		CurrentPeriodStart: m.PeriodStart,
		CurrentPeriodEnd:   m.PeriodEnd,
	}
	m.ActiveByCustomer[customerID] = append(m.ActiveByCustomer[customerID], subscriptionID)
}

func (m *MockProvider) CreateCustomer(_ context.Context, companyID, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateCustomerErr != nil {
		return "", m.CreateCustomerErr
	}

	m.nextCustomerSeq++
	id := fmt.Sprintf("cus_mock_%d", m.nextCustomerSeq)
	m.Customers[companyID] = id
	return id, nil
}

func (m *MockProvider) CreateCheckoutSession(_ context.Context, customerID, priceID string) (*CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CheckoutSessionErr != nil {
		return nil, m.CheckoutSessionErr
	}

	m.nextSubSeq++
	subID := fmt.Sprintf("sub_mock_%d", m.nextSubSeq)
	m.Subscriptions[subID] = &Subscription{
		ID:                 subID,
		ItemID:             fmt.Sprintf("si_mock_%d", m.nextSubSeq),
		Status:             "active",
		CurrentPeriodStart: m.PeriodStart,
		CurrentPeriodEnd:   m.PeriodEnd,
	}
	m.ActiveByCustomer[customerID] = append(m.ActiveByCustomer[customerID], subID)

	return &CheckoutSession{
		ID:             fmt.Sprintf("cs_mock_%d_%s", m.nextSubSeq, priceID),
		URL:            fmt.Sprintf("https://checkout.mock/%d", m.nextSubSeq),
		SubscriptionID: subID,
	}, nil
}

func (m *MockProvider) CancelAtPeriodEnd(_ context.Context, subscriptionID string) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CancelErr != nil {
		return nil, m.CancelErr
	}

	sub, ok := m.Subscriptions[subscriptionID]
	if !ok {
		return nil, fmt.Errorf("billing: subscription %s not found", subscriptionID)
	}
	sub.CancelAtPeriodEnd = true
	out := *sub
	return &out, nil
}

func (m *MockProvider) Reactivate(_ context.Context, subscriptionID string) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReactivateErr != nil {
		return nil, m.ReactivateErr
	}

	sub, ok := m.Subscriptions[subscriptionID]
	if !ok {
		return nil, fmt.Errorf("billing: subscription %s not found", subscriptionID)
	}
	sub.CancelAtPeriodEnd = false
	out := *sub
	return &out, nil
}

func (m *MockProvider) ListActiveSubscriptions(_ context.Context, customerID string, limit int) ([]Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}

	var subs []Subscription
	for _, id := range m.ActiveByCustomer[customerID] {
		if sub, ok := m.Subscriptions[id]; ok && sub.Status == "active" {
			subs = append(subs, *sub)
		}
		if limit > 0 && len(subs) >= limit {
			break
		}
	}
	return subs, nil
}

func (m *MockProvider) SwapSubscriptionItem(_ context.Context, subscriptionID, itemID, priceID string) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SwapErr != nil {
		return nil, m.SwapErr
	}

	sub, ok := m.Subscriptions[subscriptionID]
	if !ok {
		return nil, fmt.Errorf("billing: subscription %s not found", subscriptionID)
	}
	sub.ItemID = itemID
	m.SwappedPrices = append(m.SwappedPrices, priceID)
	out := *sub
	return &out, nil
}

func (m *MockProvider) CreatePaymentLink(_ context.Context, priceID string) (*PaymentLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PaymentLinkErr != nil {
		return nil, m.PaymentLinkErr
	}

	m.nextLinkSeq++
	m.PaymentLinks = append(m.PaymentLinks, priceID)
	return &PaymentLink{
		ID:  fmt.Sprintf("plink_mock_%d", m.nextLinkSeq),
		URL: fmt.Sprintf("https://pay.mock/%d", m.nextLinkSeq),
	}, nil
}
