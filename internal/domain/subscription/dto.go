// internal/domain/subscription/dto.go
package subscription

import (
	"time"
)

type CreateSubscriptionRequest struct {
	UserID string `json:"userId" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	PlanID string `json:"planId" binding:"required"`
}

type UpgradeSubscriptionRequest struct {
	NewPlanID string `json:"newPlanId" binding:"required"`
}

// CheckoutResponse carries the provider checkout session for a new
// subscription.
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url,omitempty"`
}

// CancelResponse reports when the canceled subscription actually ends.
type CancelResponse struct {
	CancelDate time.Time `json:"cancelDate"`
}

// UpgradeResponse is either a payment link (no active provider subscription,
// deferred activation) or the refreshed local subscription snapshot.
type UpgradeResponse struct {
	PaymentLink string      `json:"paymentLink,omitempty"`
	Company     interface{} `json:"company,omitempty"`
}
