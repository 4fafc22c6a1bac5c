// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureGroupMembers(ctx, db); err != nil {
		problems = append(problems, "group_members: "+err.Error())
	}
	if err := ensureReports(ctx, db); err != nil {
		problems = append(problems, "reports: "+err.Error())
	}
	if err := ensureComments(ctx, db); err != nil {
		problems = append(problems, "comments: "+err.Error())
	}
	if err := ensureRatings(ctx, db); err != nil {
		problems = append(problems, "ratings: "+err.Error())
	}
	if err := ensureNotifications(ctx, db); err != nil {
		problems = append(problems, "notifications: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	for _, m := range models {
		name := ""
		unique := false
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			if m.Options.Unique != nil {
				unique = *m.Options.Unique
			}
		}
		zap.L().Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.Bool("unique", unique))
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			// CreateOne is a no-op when the index already exists with
			// identical options; any other outcome is a real problem.
			if isOptionsConflictErr(err) {
				zap.L().Warn("index exists with different options, leaving as-is",
					zap.String("collection", coll.Name()),
					zap.String("name", name),
					zap.Error(err))
				continue
			}
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Mongo/DocDB returns IndexOptionsConflict when an index with the same
// keys already exists under a different name or with different options.
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict") ||
		strings.Contains(err.Error(), "IndexKeySpecsConflict")
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
	})
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("groups"), []mongo.IndexModel{
		{
			// Sparse: only groups that have generated an invite token
			// carry the field.
			Keys: bson.D{{Key: "invite_token", Value: 1}},
			Options: options.Index().
				SetName("uniq_invite_token").
				SetUnique(true).
				SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetName("by_owner"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_created"),
		},
	})
}

func ensureGroupMembers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("group_members"), []mongo.IndexModel{
		{
			// One membership row per user per group; racing joins
			// collapse onto this.
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "group_id", Value: 1},
			},
			Options: options.Index().SetName("uniq_user_group").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}},
			Options: options.Index().SetName("by_group"),
		},
	})
}

func ensureReports(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("reports"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "author_id", Value: 1}},
			Options: options.Index().SetName("by_author"),
		},
		{
			Keys: bson.D{
				{Key: "group_id", Value: 1},
				{Key: "visibility", Value: 1},
			},
			Options: options.Index().SetName("by_group_visibility"),
		},
		{
			Keys: bson.D{
				{Key: "visibility", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("by_visibility_created"),
		},
	})
}

func ensureComments(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("comments"), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "report_id", Value: 1},
				{Key: "created_at", Value: 1},
			},
			Options: options.Index().SetName("by_report_created"),
		},
		{
			Keys:    bson.D{{Key: "parent_id", Value: 1}},
			Options: options.Index().SetName("by_parent").SetSparse(true),
		},
	})
}

func ensureRatings(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("ratings"), []mongo.IndexModel{
		{
			// One rating per user per report; the upsert path depends
			// on this.
			Keys: bson.D{
				{Key: "report_id", Value: 1},
				{Key: "user_id", Value: 1},
			},
			Options: options.Index().SetName("uniq_report_user").SetUnique(true),
		},
	})
}

func ensureNotifications(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("notifications"), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "read", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("by_user_read_created"),
		},
	})
}
