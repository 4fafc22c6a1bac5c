// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification type tags.
const (
	NotifyGroupJoin = "GROUP_JOIN"
	NotifyComment   = "COMMENT"
	NotifyRating    = "RATING"
)

// Notification is a write-once record delivered to a single recipient.
// Only the recipient may toggle Read.
type Notification struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"userId"`
	Type    string             `bson:"type" json:"type"`
	Title   string             `bson:"title" json:"title"`
	Message string             `bson:"message" json:"message"`
	Link    string             `bson:"link,omitempty" json:"link,omitempty"`
	Read    bool               `bson:"read" json:"read"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
