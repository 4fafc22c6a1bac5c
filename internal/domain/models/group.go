// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a collaboration space owned by a single user.
//
// NOTE:
//   - Member lists are not embedded on Group. All membership is stored
//     in the group_members collection; the owner conventionally holds a
//     membership row with role "ADMIN", created at group creation.
//   - InviteToken is an opaque, rotatable secret. Empty means no invite
//     link has been issued yet. Unique across all groups.
type Group struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Avatar      string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	IsPublic    bool               `bson:"is_public" json:"isPublic"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"ownerId"`
	InviteToken string             `bson:"invite_token,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
