// internal/domain/event/entity.go
package event

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Type string

const (
	TypeEvent     Type = "event"
	TypePromotion Type = "promotion"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Distance is filled in by $geoNear aggregations.
type Distance struct {
	Calculated float64 `json:"calculated" bson:"calculated"`
}

// Event is either an event or a promotion, owned by a user or company.
// Reference fields hold ids into their own collections and are expanded
// on the way out.
type Event struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	EventType   Type               `json:"eventType" bson:"eventType"`
	Status      Status             `json:"status" bson:"status"`

	UserID        primitive.ObjectID   `json:"userId" bson:"userId"`
	Location      *primitive.ObjectID  `json:"location,omitempty" bson:"location,omitempty"`
	EventLocation GeoPoint             `json:"eventLocation" bson:"eventLocation"`
	Categories    []primitive.ObjectID `json:"categories" bson:"categories"`

	// Promotions carry a subscription tier, paid events a payment tier.
	Payment      *primitive.ObjectID `json:"payment,omitempty" bson:"payment,omitempty"`
	Subscription *primitive.ObjectID `json:"subscription,omitempty" bson:"subscription,omitempty"`

	StartDate *time.Time `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`

	Dist *Distance `json:"dist,omitempty" bson:"dist,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Category is a simple event tag.
type Category struct {
	ID   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name string             `json:"name" bson:"name"`
}

// Location is a named venue document referenced by events.
type Location struct {
	ID      primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name    string             `json:"name" bson:"name"`
	Address string             `json:"address,omitempty" bson:"address,omitempty"`
	City    string             `json:"city,omitempty" bson:"city,omitempty"`
	Zip     string             `json:"zip,omitempty" bson:"zip,omitempty"`
}
