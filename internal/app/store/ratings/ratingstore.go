// internal/app/store/ratings/ratingstore.go
package ratingstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dalemusser/azubihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages ratings and keeps the denormalized aggregate
// (average_rating, rating_count) on the report document in sync. Every
// mutation recomputes the aggregate from the ratings collection rather
// than adjusting it incrementally, so a lost update can never leave the
// stored average drifted from the source rows.
type Store struct {
	ratings *mongo.Collection
	reports *mongo.Collection
}

var ErrNotFound = errors.New("rating not found")

func New(db *mongo.Database) *Store {
	return &Store{
		ratings: db.Collection("ratings"),
		reports: db.Collection("reports"),
	}
}

// The lock registry is package-level: handlers construct a fresh Store
// per request, so a per-instance registry would never be shared and the
// read-aggregate/write-report sequence could interleave. Concurrent
// ratings of different reports still proceed independently.
var (
	locksMu sync.Mutex
	locks   = make(map[primitive.ObjectID]*sync.Mutex)
)

// reportLock serializes aggregate recomputation per report.
func reportLock(reportID primitive.ObjectID) *sync.Mutex {
	locksMu.Lock()
	defer locksMu.Unlock()
	l, ok := locks[reportID]
	if !ok {
		l = &sync.Mutex{}
		locks[reportID] = l
	}
	return l
}

// Upsert records the user's rating of a report, overwriting any prior
// rating by the same user. It returns the stored rating and whether it
// was newly created (as opposed to an update of an existing one). The
// report's aggregate is recomputed before returning.
func (s *Store) Upsert(ctx context.Context, reportID, userID primitive.ObjectID, value int) (models.Rating, bool, error) {
	if value < 1 || value > 5 {
		return models.Rating{}, false, errors.New("rating must be between 1 and 5")
	}
	l := reportLock(reportID)
	l.Lock()
	defer l.Unlock()

	now := time.Now().UTC()
	res, err := s.ratings.UpdateOne(ctx,
		bson.M{"report_id": reportID, "user_id": userID},
		bson.M{
			"$set":         bson.M{"value": value, "updated_at": now},
			"$setOnInsert": bson.M{"report_id": reportID, "user_id": userID, "created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return models.Rating{}, false, err
	}
	created := res.UpsertedCount > 0

	if err := s.recomputeAggregate(ctx, reportID); err != nil {
		return models.Rating{}, false, err
	}

	var r models.Rating
	err = s.ratings.FindOne(ctx, bson.M{"report_id": reportID, "user_id": userID}).Decode(&r)
	if err != nil {
		return models.Rating{}, false, err
	}
	return r, created, nil
}

// Delete removes the user's rating of a report and recomputes the
// aggregate. Returns ErrNotFound when no rating existed.
func (s *Store) Delete(ctx context.Context, reportID, userID primitive.ObjectID) error {
	l := reportLock(reportID)
	l.Lock()
	defer l.Unlock()

	res, err := s.ratings.DeleteOne(ctx, bson.M{"report_id": reportID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return s.recomputeAggregate(ctx, reportID)
}

// GetByUser returns the user's rating of a report, or ErrNotFound.
func (s *Store) GetByUser(ctx context.Context, reportID, userID primitive.ObjectID) (models.Rating, error) {
	var r models.Rating
	err := s.ratings.FindOne(ctx, bson.M{"report_id": reportID, "user_id": userID}).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Rating{}, ErrNotFound
		}
		return models.Rating{}, err
	}
	return r, nil
}

// ListByReport returns all ratings of a report, newest first.
func (s *Store) ListByReport(ctx context.Context, reportID primitive.ObjectID) ([]models.Rating, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.ratings.Find(ctx, bson.M{"report_id": reportID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Rating
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByReport removes all ratings of a report (report-deletion
// cascade). The report document is gone afterwards, so no aggregate
// recompute is done.
func (s *Store) DeleteByReport(ctx context.Context, reportID primitive.ObjectID) (int64, error) {
	res, err := s.ratings.DeleteMany(ctx, bson.M{"report_id": reportID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// recomputeAggregate derives average_rating and rating_count from the
// ratings collection and writes them onto the report document. With no
// ratings both fall back to zero.
func (s *Store) recomputeAggregate(ctx context.Context, reportID primitive.ObjectID) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"report_id": reportID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"avg":   bson.M{"$avg": "$value"},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := s.ratings.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	avg := 0.0
	count := 0
	if cur.Next(ctx) {
		var row struct {
			Avg   float64 `bson:"avg"`
			Count int     `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return err
		}
		avg = row.Avg
		count = row.Count
	}
	if err := cur.Err(); err != nil {
		return err
	}

	_, err = s.reports.UpdateByID(ctx, reportID, bson.M{"$set": bson.M{
		"average_rating": avg,
		"rating_count":   count,
	}})
	return err
}
