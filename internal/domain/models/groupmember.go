// internal/domain/models/groupmember.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group-level membership roles. Distinct from the platform-wide roles
// on User: a group ADMIN has no special rights outside their group.
const (
	GroupRoleAdmin  = "ADMIN"
	GroupRoleMember = "MEMBER"
)

// GroupMember is the authoritative join between users and groups.
// Exactly one document per (user_id, group_id), enforced by a unique
// index; concurrent joins for the same pair resolve to one winner.
type GroupMember struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"userId"`
	GroupID primitive.ObjectID `bson:"group_id" json:"groupId"`
	Role    string             `bson:"role" json:"role"` // "ADMIN" | "MEMBER"

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
