// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a remark on a report. Threads are one level deep: a
// comment either has no parent (top-level) or its parent is itself a
// top-level comment on the same report.
type Comment struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Content  string              `bson:"content" json:"content"`
	AuthorID primitive.ObjectID  `bson:"author_id" json:"authorId"`
	ReportID primitive.ObjectID  `bson:"report_id" json:"reportId"`
	ParentID *primitive.ObjectID `bson:"parent_id,omitempty" json:"parentId,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
