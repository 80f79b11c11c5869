// internal/domain/event/dto.go
package event

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventora-service/internal/domain/plan"
	"eventora-service/internal/domain/user"
)

type CreateEventRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Description string   `json:"description"`
	EventType   Type     `json:"eventType" binding:"omitempty,oneof=event promotion"`
	UserID      string   `json:"userId" binding:"required"`
	Location    string   `json:"location"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Categories  []string `json:"categories"`

	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

type UpdateEventRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=255"`
	Description *string  `json:"description"`
	Status      *Status  `json:"status" binding:"omitempty,oneof=draft published"`
	Location    *string  `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Categories  []string `json:"categories"`

	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

// OwnerSummary is the expanded userId reference. The owner can live in
// either the users or the companies collection.
type OwnerSummary struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Role        user.Role          `json:"role"`
	CompanyName string             `json:"companyName,omitempty"`
}

// EventResponse is an event with its references expanded, the shape
// handlers serialize into the result envelope.
type EventResponse struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	EventType   Type               `json:"eventType"`
	Status      Status             `json:"status"`

	User          *OwnerSummary `json:"userId,omitempty"`
	Location      *Location     `json:"location,omitempty"`
	EventLocation GeoPoint      `json:"eventLocation"`
	Categories    []Category    `json:"categories"`

	Payment      *plan.PaymentPlan `json:"payment,omitempty"`
	Subscription *plan.Plan        `json:"subscription,omitempty"`

	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	// Meters from the query point, present on proximity queries only.
	Distance *float64 `json:"distance,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
