// internal/domain/models/report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visibility modes for a report.
const (
	VisibilityPrivate = "PRIVATE"
	VisibilityGroup   = "GROUP"
	VisibilityPublic  = "PUBLIC"
)

// Declared file types accepted for report uploads.
const (
	FileTypePDF  = "PDF"
	FileTypeDOCX = "DOCX"
)

// Report is an uploaded training document.
//
// NOTE:
//   - GroupID is set (and validated against the author's memberships)
//     only when Visibility is "GROUP"; otherwise it is nil.
//   - AverageRating and RatingCount are derived from the ratings
//     collection and owned exclusively by this document. Every rating
//     mutation recomputes and persists them; nothing else may write
//     them.
//   - The file itself lives in object storage; FileURL is opaque here.
type Report struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	FileURL     string              `bson:"file_url" json:"fileUrl"`
	FileName    string              `bson:"file_name" json:"fileName"`
	FileSize    int64               `bson:"file_size" json:"fileSize"`
	FileType    string              `bson:"file_type" json:"fileType"` // "PDF" | "DOCX"
	Visibility  string              `bson:"visibility" json:"visibility"`
	GroupID     *primitive.ObjectID `bson:"group_id,omitempty" json:"groupId,omitempty"`
	AuthorID    primitive.ObjectID  `bson:"author_id" json:"authorId"`

	// Free classification, not enforced against a controlled vocabulary.
	Profession   string   `bson:"profession,omitempty" json:"profession,omitempty"`
	TrainingYear int      `bson:"training_year,omitempty" json:"trainingYear,omitempty"`
	Tags         []string `bson:"tags,omitempty" json:"tags"`

	AverageRating float64 `bson:"average_rating" json:"averageRating"`
	RatingCount   int     `bson:"rating_count" json:"ratingCount"`
	DownloadCount int     `bson:"download_count" json:"downloadCount"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
