// internal/domain/plan/entity.go
package plan

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Well-known tier names. Tiers are looked up by name, so renaming a plan
// document breaks these lookups.
const (
	NameBasic      = "basic"
	NameOptima     = "optima"
	NameOptimaPlus = "optima plus"
)

// Plan is a subscription tier for promotions.
type Plan struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	Price         float64            `json:"price" bson:"price"`
	Currency      string             `json:"currency" bson:"currency"`
	StripePriceID string             `json:"stripePriceId,omitempty" bson:"stripePriceId,omitempty"`
	Features      []string           `json:"features,omitempty" bson:"features,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// PaymentPlan is a one-off payment tier for events.
type PaymentPlan struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	Price         float64            `json:"price" bson:"price"`
	Currency      string             `json:"currency" bson:"currency"`
	StripePriceID string             `json:"stripePriceId,omitempty" bson:"stripePriceId,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
