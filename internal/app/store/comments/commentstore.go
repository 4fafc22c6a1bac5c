// internal/app/store/comments/commentstore.go
package commentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/azubihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound = errors.New("comment not found")

	// ErrNestedReply enforces the single-level thread shape: replies
	// to replies are rejected rather than flattened.
	ErrNestedReply = errors.New("replies to replies are not allowed")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("comments")}
}

// Create inserts a comment. When ParentID is set the parent must exist,
// be top-level, and belong to the same report.
func (s *Store) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	if c.ParentID != nil {
		parent, err := s.GetByID(ctx, *c.ParentID)
		if err != nil {
			return models.Comment{}, err
		}
		if parent.ParentID != nil {
			return models.Comment{}, ErrNestedReply
		}
		if parent.ReportID != c.ReportID {
			// A parent on another report is treated as absent.
			return models.Comment{}, ErrNotFound
		}
	}
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Comment, error) {
	var c models.Comment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Comment{}, ErrNotFound
		}
		return models.Comment{}, err
	}
	return c, nil
}

// UpdateContent replaces the comment text.
func (s *Store) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (models.Comment, error) {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"content":    content,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return models.Comment{}, err
	}
	if res.MatchedCount == 0 {
		return models.Comment{}, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Delete removes a comment and any direct replies to it.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"_id": id},
		bson.M{"parent_id": id},
	}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByReport returns the report's comments oldest first, replies
// interleaved by creation time. Thread assembly is the caller's job.
func (s *Store) ListByReport(ctx context.Context, reportID primitive.ObjectID) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"report_id": reportID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Comment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByReport removes all comments on a report (report-deletion
// cascade).
func (s *Store) DeleteByReport(ctx context.Context, reportID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"report_id": reportID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByReport returns the number of comments on a report.
func (s *Store) CountByReport(ctx context.Context, reportID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"report_id": reportID})
}

// CountByReports returns per-report comment counts for a listing.
// Reports without comments are absent from the map.
func (s *Store) CountByReports(ctx context.Context, reportIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	out := make(map[primitive.ObjectID]int64, len(reportIDs))
	if len(reportIDs) == 0 {
		return out, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"report_id": bson.M{"$in": reportIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$report_id", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Count int64              `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ID] = row.Count
	}
	return out, cur.Err()
}
