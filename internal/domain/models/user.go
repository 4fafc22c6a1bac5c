// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold platform-wide. Group-level roles live on
// GroupMember, not here.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered apprentice or a platform admin.
//
// NOTE:
//   - PasswordHash is empty for accounts created through an external
//     identity provider; such users can never log in with credentials.
//   - Group membership is not embedded here. Use the group_members
//     collection to discover a user's groups.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Role         string             `bson:"role" json:"role"` // "user" | "admin"
	Image        string             `bson:"image,omitempty" json:"image,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user holds the platform admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
