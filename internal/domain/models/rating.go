// internal/domain/models/rating.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating is one user's 1..5 star rating of a report. Unique per
// (report_id, user_id); a second submission overwrites the first.
type Rating struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReportID primitive.ObjectID `bson:"report_id" json:"reportId"`
	UserID   primitive.ObjectID `bson:"user_id" json:"userId"`
	Value    int                `bson:"value" json:"value"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
