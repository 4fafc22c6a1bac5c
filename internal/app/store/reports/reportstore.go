// internal/app/store/reports/reportstore.go
package reportstore

import (
	"context"
	"errors"
	"strings"
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

var ErrNotFound = errors.New("report not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reports")}
}

func (s *Store) Create(ctx context.Context, r models.Report) (models.Report, error) {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.AverageRating = 0
	r.RatingCount = 0
	r.DownloadCount = 0
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Report{}, err
	}
	return r, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Report, error) {
	var r models.Report
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Report{}, ErrNotFound
		}
		return models.Report{}, err
	}
	return r, nil
}

// Filter selects reports for a listing. The zero value, scoped to a
// viewer, yields the default feed: PUBLIC reports plus the viewer's own
// regardless of visibility. Anonymous viewers (zero ViewerID) see only
// PUBLIC.
//
// GroupID narrows to one group and applies the widening rule: the
// result contains the group's GROUP-visible reports (when the viewer
// may see them) together with the group's PUBLIC reports. A group page
// would look broken if the public reports filed under it vanished for
// non-members, so PUBLIC is always included.
type Filter struct {
	ViewerID       primitive.ObjectID   // zero means anonymous
	MemberGroupIDs []primitive.ObjectID // groups the viewer belongs to

	// Visibility narrows to one mode, except GROUP: an explicit GROUP
	// filter widens to the group slice plus every PUBLIC report.
	Visibility   string
	GroupID      *primitive.ObjectID
	AuthorID     *primitive.ObjectID
	Profession   string
	TrainingYear int
	Tags         []string // any tag matches
	Search       string   // case-insensitive match on title or description
}

func (f Filter) memberOf(groupID primitive.ObjectID) bool {
	for _, id := range f.MemberGroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}

// visibilityClause builds the access portion of the query. Everything
// else in buildQuery narrows; this clause is the only one that grants.
func (f Filter) visibilityClause() bson.M {
	if f.GroupID != nil {
		or := bson.A{
			bson.M{"visibility": models.VisibilityPublic},
		}
		if f.memberOf(*f.GroupID) {
			or = append(or, bson.M{"visibility": models.VisibilityGroup})
		}
		if !f.ViewerID.IsZero() {
			or = append(or, bson.M{"author_id": f.ViewerID})
		}
		return bson.M{"$or": or}
	}

	if f.ViewerID.IsZero() {
		return bson.M{"visibility": models.VisibilityPublic}
	}
	or := bson.A{
		bson.M{"visibility": models.VisibilityPublic},
		bson.M{"author_id": f.ViewerID},
	}
	if len(f.MemberGroupIDs) > 0 {
		or = append(or, bson.M{
			"visibility": models.VisibilityGroup,
			"group_id":   bson.M{"$in": f.MemberGroupIDs},
		})
	}
	return bson.M{"$or": or}
}

func (f Filter) buildQuery() bson.M {
	and := bson.A{f.visibilityClause()}
	switch f.Visibility {
	case "":
	case models.VisibilityGroup:
		// GROUP widens rather than narrows: the caller gets the
		// group-visible reports they may see together with all PUBLIC
		// ones. A plain visibility match here would silently drop the
		// public slice.
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"visibility": models.VisibilityGroup},
			bson.M{"visibility": models.VisibilityPublic},
		}})
	default:
		and = append(and, bson.M{"visibility": f.Visibility})
	}
	if f.GroupID != nil {
		and = append(and, bson.M{"group_id": *f.GroupID})
	}
	if f.AuthorID != nil {
		and = append(and, bson.M{"author_id": *f.AuthorID})
	}
	if f.Profession != "" {
		and = append(and, bson.M{"profession": f.Profession})
	}
	if f.TrainingYear > 0 {
		and = append(and, bson.M{"training_year": f.TrainingYear})
	}
	if len(f.Tags) > 0 {
		and = append(and, bson.M{"tags": bson.M{"$in": f.Tags}})
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		re := primitive.Regex{Pattern: regexQuote(q), Options: "i"}
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
		}})
	}
	return bson.M{"$and": and}
}

// List returns matching reports, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, f.buildQuery(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Report
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAttrs holds the mutable report metadata. Nil pointers leave the
// field unchanged. The stored file, author, and rating aggregate are
// never touched here.
type UpdateAttrs struct {
	Title        *string
	Description  *string
	Visibility   *string
	GroupID      **primitive.ObjectID // outer nil = unchanged; inner nil = clear
	Profession   *string
	TrainingYear *int
	Tags         *[]string
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, attrs UpdateAttrs) (models.Report, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	if attrs.Title != nil && strings.TrimSpace(*attrs.Title) != "" {
		set["title"] = *attrs.Title
	}
	if attrs.Description != nil {
		set["description"] = *attrs.Description
	}
	if attrs.Visibility != nil {
		set["visibility"] = *attrs.Visibility
	}
	if attrs.GroupID != nil {
		if *attrs.GroupID == nil {
			unset["group_id"] = ""
		} else {
			set["group_id"] = **attrs.GroupID
		}
	}
	if attrs.Profession != nil {
		set["profession"] = *attrs.Profession
	}
	if attrs.TrainingYear != nil {
		set["training_year"] = *attrs.TrainingYear
	}
	if attrs.Tags != nil {
		set["tags"] = *attrs.Tags
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	res, err := s.c.UpdateByID(ctx, id, update)
	if err != nil {
		return models.Report{}, err
	}
	if res.MatchedCount == 0 {
		return models.Report{}, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Delete removes a report document. Cascades (comments, ratings, the
// stored file) are the caller's responsibility.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// IncrementDownloadCount bumps the counter without touching updated_at;
// downloads are reads, not edits.
func (s *Store) IncrementDownloadCount(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"download_count": 1}})
	return err
}

// DeleteByGroup removes all reports filed under a group and returns the
// file URLs of the removed documents so the caller can clean up object
// storage.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) ([]string, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var ids []primitive.ObjectID
	var urls []string
	for cur.Next(ctx) {
		var r models.Report
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		ids = append(ids, r.ID)
		if r.FileURL != "" {
			urls = append(urls, r.FileURL)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		if _, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
			return nil, err
		}
	}
	return urls, nil
}

// IDsByGroup returns the ids of all reports filed under a group.
func (s *Store) IDsByGroup(ctx context.Context, groupID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []primitive.ObjectID
	for cur.Next(ctx) {
		var r models.Report
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		out = append(out, r.ID)
	}
	return out, cur.Err()
}

// CountByGroup returns the number of reports filed under a group.
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
}

// CountByAuthor returns the number of reports a user has uploaded.
func (s *Store) CountByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"author_id": authorID})
}

func regexQuote(s string) string {
	const meta = `\.+*?()|[]{}^$`
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(meta, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
