// internal/domain/company/entity.go
package company

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventora-service/internal/domain/user"
)

type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusCanceling SubscriptionStatus = "canceling"
	StatusCanceled  SubscriptionStatus = "canceled"
)

// ActiveSubscription is the local mirror of the company's provider-side
// subscription. The billing provider owns the period boundaries; this copy
// exists so entitlement checks stay fast and local.
type ActiveSubscription struct {
	Status             SubscriptionStatus  `json:"status" bson:"status"`
	Plan               *primitive.ObjectID `json:"plan,omitempty" bson:"plan,omitempty"`
	CurrentPeriodStart time.Time           `json:"currentPeriodStart" bson:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time           `json:"currentPeriodEnd" bson:"currentPeriodEnd"`
	CancelAtPeriodEnd  bool                `json:"cancelAtPeriodEnd" bson:"cancelAtPeriodEnd"`
	CanceledAt         *time.Time          `json:"canceledAt,omitempty" bson:"canceledAt,omitempty"`
}

// StripeInfo holds the provider-side identifiers for the company.
type StripeInfo struct {
	CustomerID         string `json:"customerId,omitempty" bson:"customerId,omitempty"`
	SubscriptionID     string `json:"subscriptionId,omitempty" bson:"subscriptionId,omitempty"`
	SubscriptionItemID string `json:"subscriptionItemId,omitempty" bson:"subscriptionItemId,omitempty"`
}

// Company is a user account with the company role. It owns at most one
// active subscription record at a time.
type Company struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password"`
	Role         user.Role          `json:"role" bson:"role"`

	CompanyName  string `json:"companyName" bson:"companyName"`
	CompanyEmail string `json:"companyEmail" bson:"companyEmail"`
	Phone        string `json:"phone" bson:"phone"`
	Sector       string `json:"sector" bson:"sector"`

	Subscription       *primitive.ObjectID `json:"subscription,omitempty" bson:"subscription,omitempty"`
	ActiveSubscription ActiveSubscription  `json:"activeSubscription" bson:"activeSubscription"`
	Stripe             StripeInfo          `json:"stripe" bson:"stripe"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Entitled reports whether the company may keep publishing on its current
// plan. An active subscription always qualifies; a canceling one only while
// its cancellation timestamp is still in the future. A missing timestamp
// counts as expired, and a canceled subscription never qualifies.
func (c *Company) Entitled(now time.Time) bool {
	sub := c.ActiveSubscription
	switch sub.Status {
	case StatusActive:
		return true
	case StatusCanceling:
		return sub.CanceledAt != nil && sub.CanceledAt.After(now)
	default:
		return false
	}
}
