// internal/domain/user/dto.go
package user

import (
	"eventora-service/internal/domain/plan"
)

// PopulatedUser is a user with its subscription reference expanded.
// The outer field shadows the embedded id on serialization.
type PopulatedUser struct {
	*User
	Subscription *plan.Plan `json:"subscription,omitempty"`
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     Role   `json:"role"`

	// Company-only fields
	CompanyName  string `json:"companyName"`
	CompanyEmail string `json:"companyEmail"`
	Phone        string `json:"phone"`
	Sector       string `json:"sector"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	Role     *Role   `json:"role"`

	CompanyName  *string `json:"companyName"`
	CompanyEmail *string `json:"companyEmail" binding:"omitempty,email"`
	Phone        *string `json:"phone"`
	Sector       *string `json:"sector"`
}

type UpdateSubscriptionRequest struct {
	SubscriptionID string `json:"subscriptionId" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}
