// internal/billing/stripe.go
package billing

import (
	"context"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/paymentlink"
	"github.com/stripe/stripe-go/v82/subscription"
)

// StripeProvider implements Provider using the Stripe API.
type StripeProvider struct {
	apiKey  string
	baseURL string
}

// NewStripeProvider creates a StripeProvider with the given API key.
// baseURL is where checkout and payment-link flows redirect after completion.
func NewStripeProvider(apiKey, baseURL string) *StripeProvider {
	stripe.Key = apiKey
	return &StripeProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

// CreateCustomer creates a new Stripe customer for the given company.
func (p *StripeProvider) CreateCustomer(_ context.Context, companyID, email string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Metadata: map[string]string{
			"company_id": companyID,
		},
	}
	c, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("billing: create stripe customer: %w", err)
	}
	return c.ID, nil
}

// CreateCheckoutSession opens a subscription-mode checkout session for the price.
func (p *StripeProvider) CreateCheckoutSession(_ context.Context, customerID, priceID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(p.baseURL + "subscription/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(p.baseURL + "subscription/canceled"),
	}
	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("billing: create checkout session: %w", err)
	}

	cs := &CheckoutSession{ID: s.ID, URL: s.URL}
	if s.Subscription != nil {
		cs.SubscriptionID = s.Subscription.ID
	}
	return cs, nil
}

// CancelAtPeriodEnd schedules cancellation at the end of the current period.
func (p *StripeProvider) CancelAtPeriodEnd(_ context.Context, subscriptionID string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	sub, err := subscription.Update(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("billing: cancel stripe subscription: %w", err)
	}
	return fromStripeSubscription(sub), nil
}

// Reactivate clears a pending period-end cancellation.
func (p *StripeProvider) Reactivate(_ context.Context, subscriptionID string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(false),
	}
	sub, err := subscription.Update(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("billing: reactivate stripe subscription: %w", err)
	}
	return fromStripeSubscription(sub), nil
}

// ListActiveSubscriptions returns up to limit active subscriptions for the customer.
func (p *StripeProvider) ListActiveSubscriptions(_ context.Context, customerID string, limit int) ([]Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	params.Limit = stripe.Int64(int64(limit))

	var subs []Subscription
	iter := subscription.List(params)
	for iter.Next() {
		subs = append(subs, *fromStripeSubscription(iter.Subscription()))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("billing: list stripe subscriptions: %w", err)
	}
	return subs, nil
}

// SwapSubscriptionItem replaces the subscription's item price in place with
// prorated, invoice-now billing.
func (p *StripeProvider) SwapSubscriptionItem(_ context.Context, subscriptionID, itemID, priceID string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{
		Items: []*stripe.SubscriptionItemsParams{
			{
				ID:    stripe.String(itemID),
				Price: stripe.String(priceID),
			},
		},
		ProrationBehavior: stripe.String("always_invoice"),
		PaymentBehavior:   stripe.String("pending_if_incomplete"),
	}
	sub, err := subscription.Update(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("billing: upgrade stripe subscription: %w", err)
	}
	return fromStripeSubscription(sub), nil
}

// CreatePaymentLink issues a one-off payment link for the price.
func (p *StripeProvider) CreatePaymentLink(_ context.Context, priceID string) (*PaymentLink, error) {
	params := &stripe.PaymentLinkParams{
		LineItems: []*stripe.PaymentLinkLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		AfterCompletion: &stripe.PaymentLinkAfterCompletionParams{
			Type: stripe.String("redirect"),
			Redirect: &stripe.PaymentLinkAfterCompletionRedirectParams{
				URL: stripe.String(p.baseURL + "subscription/success"),
			},
		},
	}
	link, err := paymentlink.New(params)
	if err != nil {
		return nil, fmt.Errorf("billing: create payment link: %w", err)
	}
	return &PaymentLink{ID: link.ID, URL: link.URL}, nil
}

// fromStripeSubscription maps a Stripe subscription to the local view.
// Period bounds live on the subscription item.
func fromStripeSubscription(sub *stripe.Subscription) *Subscription {
	out := &Subscription{
		ID:                sub.ID,
		Status:            string(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		out.ItemID = item.ID
		out.CurrentPeriodStart = time.Unix(item.CurrentPeriodStart, 0)
		out.CurrentPeriodEnd = time.Unix(item.CurrentPeriodEnd, 0)
	}
	return out
}
