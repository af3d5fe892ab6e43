// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user document can carry. Every user is created as RoleUser
// unless the registration payload says otherwise.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account. The email is the external
// identity (it matches the verified token claim) and is unique.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email    string             `bson:"email" json:"email"`
	Name     string             `bson:"name,omitempty" json:"name,omitempty"`
	PhotoURL string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Role     string             `bson:"role" json:"role"` // user | admin

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidRole reports whether role is one of the known role values.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
