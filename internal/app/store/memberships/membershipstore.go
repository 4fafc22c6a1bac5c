// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
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

var (
	errBadRole = errors.New(`role must be "ADMIN" or "MEMBER"`)

	// ErrDuplicateMembership surfaces the unique (user_id, group_id)
	// index: when two joins race, the loser gets this instead of a
	// second row.
	ErrDuplicateMembership = errors.New("user is already a member of this group")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_members")}
}

// Add creates a membership row. Idempotency is delegated to the unique
// index; duplicates come back as ErrDuplicateMembership.
func (s *Store) Add(ctx context.Context, groupID, userID primitive.ObjectID, role string) (models.GroupMember, error) {
	if role != models.GroupRoleAdmin && role != models.GroupRoleMember {
		return models.GroupMember{}, errBadRole
	}
	m := models.GroupMember{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		GroupID:   groupID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.GroupMember{}, ErrDuplicateMembership
		}
		return models.GroupMember{}, err
	}
	return m, nil
}

// Remove deletes the membership for (groupID, userID). Returns the
// number of documents deleted (0 or 1).
func (s *Store) Remove(ctx context.Context, groupID, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"group_id": groupID, "user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// IsMember reports whether the user holds a membership row in the group.
func (s *Store) IsMember(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"group_id": groupID, "user_id": userID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Role returns the member's group role, or "" when not a member.
func (s *Store) Role(ctx context.Context, groupID, userID primitive.ObjectID) (string, error) {
	var m models.GroupMember
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "user_id": userID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", err
	}
	return m.Role, nil
}

// ListByGroup returns the group's memberships, oldest first.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.GroupMember, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.GroupMember
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GroupIDsByUser returns the ids of all groups the user belongs to.
func (s *Store) GroupIDsByUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []primitive.ObjectID
	for cur.Next(ctx) {
		var m models.GroupMember
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m.GroupID)
	}
	return out, cur.Err()
}

// DeleteByGroup removes all memberships for a group (group-deletion
// cascade). Returns the number of documents deleted.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByGroup returns the number of members in a group.
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
}

// CountByUser returns the number of groups a user belongs to.
func (s *Store) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID})
}
