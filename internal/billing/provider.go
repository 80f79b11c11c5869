// internal/billing/provider.go
package billing

import (
	"context"
	"time"
)

// Subscription is the provider-side view of a subscription, reduced to the
// fields the reconciliation logic needs. Period bounds arrive from the
// provider as epoch seconds and are converted here.
type Subscription struct {
	ID                 string
	ItemID             string
	Status             string
	CancelAtPeriodEnd  bool
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
}

// CheckoutSession is a provider checkout session for a new subscription.
type CheckoutSession struct {
	ID             string
	URL            string
	SubscriptionID string
}

// PaymentLink is a one-off payment URL for deferred subscription activation.
type PaymentLink struct {
	ID  string
	URL string
}

// Provider abstracts the payment provider's customer and subscription API.
type Provider interface {
	// CreateCustomer registers a new billing customer for the company.
	CreateCustomer(ctx context.Context, companyID, email string) (customerID string, err error)
	// CreateCheckoutSession opens a subscription-mode checkout session for the price.
	CreateCheckoutSession(ctx context.Context, customerID, priceID string) (*CheckoutSession, error)
	// CancelAtPeriodEnd schedules cancellation at the end of the current period.
	CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*Subscription, error)
	// Reactivate clears a pending period-end cancellation.
	Reactivate(ctx context.Context, subscriptionID string) (*Subscription, error)
	// ListActiveSubscriptions returns up to limit active subscriptions for the customer.
	ListActiveSubscriptions(ctx context.Context, customerID string, limit int) ([]Subscription, error)
	// SwapSubscriptionItem replaces the subscription's item price in place,
	// prorated and invoiced immediately.
	SwapSubscriptionItem(ctx context.Context, subscriptionID, itemID, priceID string) (*Subscription, error)
	// CreatePaymentLink issues a one-off payment link for the price.
	CreatePaymentLink(ctx context.Context, priceID string) (*PaymentLink, error)
}
