// internal/domain/user/entity.go
package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleBasic   Role = "basic"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)

// User is a regular platform user. Company accounts live in their own
// collection, see the company domain.
type User struct {
	ID           primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name         string              `json:"name" bson:"name"`
	Email        string              `json:"email" bson:"email"`
	PasswordHash string              `json:"-" bson:"password"`
	Role         Role                `json:"role" bson:"role"`
	Subscription *primitive.ObjectID `json:"subscription,omitempty" bson:"subscription,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
