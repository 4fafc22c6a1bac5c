// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/azubihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given name and role.
func (f *Fixtures) CreateUser(ctx context.Context, name, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@test.example",
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("create user fixture: %v", err)
	}
	return u
}

// CreateGroup inserts a group owned by ownerID.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, ownerID primitive.ObjectID, isPublic bool) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		IsPublic:  isPublic,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("create group fixture: %v", err)
	}
	return g
}

// CreateMembership inserts a membership row.
func (f *Fixtures) CreateMembership(ctx context.Context, groupID, userID primitive.ObjectID, role string) models.GroupMember {
	f.t.Helper()

	m := models.GroupMember{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		GroupID:   groupID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("group_members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("create membership fixture: %v", err)
	}
	return m
}

// CreateReport inserts a report with the given visibility. groupID may
// be nil for PRIVATE and PUBLIC reports.
func (f *Fixtures) CreateReport(ctx context.Context, title string, authorID primitive.ObjectID, vis string, groupID *primitive.ObjectID) models.Report {
	f.t.Helper()

	now := time.Now().UTC()
	r := models.Report{
		ID:         primitive.NewObjectID(),
		Title:      title,
		FileURL:    "https://files.test.example/reports/" + title + ".pdf",
		FileName:   title + ".pdf",
		FileSize:   1024,
		FileType:   models.FileTypePDF,
		Visibility: vis,
		GroupID:    groupID,
		AuthorID:   authorID,
		Tags:       []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("reports").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("create report fixture: %v", err)
	}
	return r
}

// CreateComment inserts a comment; parentID may be nil.
func (f *Fixtures) CreateComment(ctx context.Context, reportID, authorID primitive.ObjectID, content string, parentID *primitive.ObjectID) models.Comment {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Comment{
		ID:        primitive.NewObjectID(),
		Content:   content,
		AuthorID:  authorID,
		ReportID:  reportID,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("comments").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("create comment fixture: %v", err)
	}
	return c
}

// CreateRating inserts a rating row directly, bypassing aggregate
// recomputation.
func (f *Fixtures) CreateRating(ctx context.Context, reportID, userID primitive.ObjectID, value int) models.Rating {
	f.t.Helper()

	now := time.Now().UTC()
	r := models.Rating{
		ID:        primitive.NewObjectID(),
		ReportID:  reportID,
		UserID:    userID,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("ratings").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("create rating fixture: %v", err)
	}
	return r
}

// CreateNotification inserts a notification for userID.
func (f *Fixtures) CreateNotification(ctx context.Context, userID primitive.ObjectID, typ string, read bool) models.Notification {
	f.t.Helper()

	n := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Type:      typ,
		Title:     "Test notification",
		Message:   "Something happened.",
		Read:      read,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("notifications").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("create notification fixture: %v", err)
	}
	return n
}
