package notify_test

import (
	"testing"

	notificationstore "github.com/dalemusser/azubihub/internal/app/store/notifications"
	"github.com/dalemusser/azubihub/internal/app/system/notify"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"github.com/dalemusser/azubihub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestDispatcher_DeliversAndDrainsOnStop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	store := notificationstore.New(db)
	d := notify.NewDispatcher(store, zap.NewNop(), 16)
	d.Start()

	userID := primitive.NewObjectID()
	for range 5 {
		d.Publish(notify.Event{
			UserID:  userID,
			Type:    models.NotifyComment,
			Title:   "New comment",
			Message: "Somebody commented on your report.",
		})
	}

	// Stop drains the queue, so everything published is persisted.
	d.Stop()

	got, err := store.ListByUser(ctx, userID, nil, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("persisted %d notifications, want 5", len(got))
	}
}

func TestDispatcher_IgnoresZeroRecipient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	store := notificationstore.New(db)
	d := notify.NewDispatcher(store, zap.NewNop(), 16)
	d.Start()

	d.Publish(notify.Event{Type: models.NotifyRating, Title: "addressed to nobody"})
	d.Stop()

	n, err := db.Collection("notifications").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("persisted %d notifications, want 0", n)
	}
}

func TestDispatcher_PublishNeverBlocksWhenFull(t *testing.T) {
	db := testutil.SetupTestDB(t)

	store := notificationstore.New(db)
	// Unstarted dispatcher with a tiny queue: extra publishes must be
	// dropped, not block.
	d := notify.NewDispatcher(store, zap.NewNop(), 1)

	userID := primitive.NewObjectID()
	for range 10 {
		d.Publish(notify.Event{UserID: userID, Type: models.NotifyComment, Title: "x"})
	}
	// Reaching this line is the assertion.
}
