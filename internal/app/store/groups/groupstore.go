// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/azubihub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateInviteToken = errors.New("invite token collision")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// ListFilter narrows the group list. Zero values mean "no filter".
type ListFilter struct {
	PublicOnly bool
	Search     string // case-insensitive match on name or description
}

// List returns groups newest first.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Group, error) {
	filter := bson.M{}
	if f.PublicOnly {
		filter["is_public"] = true
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		re := primitive.Regex{Pattern: regexQuote(q), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
		}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Group
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAttrs holds the mutable group fields. Nil pointers leave the
// field unchanged; Description may be cleared by setting it to "".
type UpdateAttrs struct {
	Name        *string
	Description *string
	IsPublic    *bool
	Avatar      *string
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, attrs UpdateAttrs) (models.Group, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if attrs.Name != nil && strings.TrimSpace(*attrs.Name) != "" {
		set["name"] = *attrs.Name
	}
	if attrs.Description != nil {
		set["description"] = *attrs.Description
	}
	if attrs.IsPublic != nil {
		set["is_public"] = *attrs.IsPublic
	}
	if attrs.Avatar != nil && *attrs.Avatar != "" {
		set["avatar"] = *attrs.Avatar
	}
	if _, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
		return models.Group{}, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes a group by ID. Returns the number of documents
// deleted (0 or 1). Cascades (memberships, reports) are the caller's
// responsibility.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) GetByInviteToken(ctx context.Context, token string) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"invite_token": token}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// EnsureInviteToken returns the group's invite token, generating and
// persisting one only if none exists yet. Calling it twice without a
// rotation in between yields the identical token.
func (s *Store) EnsureInviteToken(ctx context.Context, id primitive.ObjectID) (string, error) {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if g.InviteToken != "" {
		return g.InviteToken, nil
	}
	return s.RotateInviteToken(ctx, id)
}

// RotateInviteToken always generates a fresh token, invalidating the
// previous one immediately. Collisions are guarded by the unique index
// on invite_token; with 256 bits of entropy they do not occur in
// practice.
func (s *Store) RotateInviteToken(ctx context.Context, id primitive.ObjectID) (string, error) {
	token, err := newInviteToken()
	if err != nil {
		return "", err
	}
	_, err = s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"invite_token": token,
		"updated_at":   time.Now().UTC(),
	}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return "", ErrDuplicateInviteToken
		}
		return "", err
	}
	return token, nil
}

func newInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// regexQuote escapes regex metacharacters so user search input is
// matched literally.
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
