package ratings_test

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/azubihub/internal/app/features/ratings"
	notificationstore "github.com/dalemusser/azubihub/internal/app/store/notifications"
	"github.com/dalemusser/azubihub/internal/app/system/notify"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"github.com/dalemusser/azubihub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type env struct {
	db       *mongo.Database
	handler  *ratings.Handler
	notifier *notify.Dispatcher
	fixtures *testutil.Fixtures
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	notifier := notify.NewDispatcher(notificationstore.New(db), zap.NewNop(), 16)
	notifier.Start()
	return env{
		db:       db,
		handler:  ratings.NewHandler(db, notifier, zap.NewNop()),
		notifier: notifier,
		fixtures: testutil.NewFixtures(t, db),
	}
}

func submit(t *testing.T, e env, u models.User, reportID string, value int) *httptest.ResponseRecorder {
	t.Helper()
	body := fmt.Sprintf(`{"value":%d}`, value)
	req := testutil.SignedInRequest("POST", "/api/reports/"+reportID+"/ratings", strings.NewReader(body), u)
	req = testutil.WithChiURLParam(req, "reportID", reportID)
	rec := httptest.NewRecorder()
	e.handler.HandleSubmitRating(rec, req)
	return rec
}

type submitResponse struct {
	Rating        models.Rating `json:"rating"`
	AverageRating float64       `json:"averageRating"`
	RatingCount   int           `json:"ratingCount"`
}

func TestHandleSubmitRating_CreateThenOverwrite(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	author := e.fixtures.CreateUser(ctx, "Rated Author", models.RoleUser)
	rater := e.fixtures.CreateUser(ctx, "Star Giver", models.RoleUser)
	report := e.fixtures.CreateReport(ctx, "starred", author.ID, models.VisibilityPublic, nil)

	rec := submit(t, e, rater, report.ID.Hex(), 5)
	if rec.Code != 201 {
		t.Fatalf("first rating status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var resp submitResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AverageRating != 5 || resp.RatingCount != 1 {
		t.Errorf("aggregate = (%v, %d), want (5, 1)", resp.AverageRating, resp.RatingCount)
	}

	// Same user again: an overwrite, not a new rating.
	rec = submit(t, e, rater, report.ID.Hex(), 3)
	if rec.Code != 200 {
		t.Fatalf("overwrite status = %d, want 200", rec.Code)
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AverageRating != 3 || resp.RatingCount != 1 {
		t.Errorf("aggregate after overwrite = (%v, %d), want (3, 1)", resp.AverageRating, resp.RatingCount)
	}
}

// Rating your own report is allowed; it just never notifies anyone.
func TestHandleSubmitRating_OwnReportSilent(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	author := e.fixtures.CreateUser(ctx, "Vain Author", models.RoleUser)
	report := e.fixtures.CreateReport(ctx, "mine", author.ID, models.VisibilityPublic, nil)

	rec := submit(t, e, author, report.ID.Hex(), 5)
	if rec.Code != 201 {
		t.Fatalf("status = %d, want 201 for a self-rating: %s", rec.Code, rec.Body.String())
	}

	e.notifier.Stop()
	got, err := notificationstore.New(e.db).ListByUser(ctx, author.ID, nil, 0)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("self-rating produced %d notifications, want 0", len(got))
	}
}

func TestHandleSubmitRating_ValueOutOfRange(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	author := e.fixtures.CreateUser(ctx, "Author", models.RoleUser)
	rater := e.fixtures.CreateUser(ctx, "Rater", models.RoleUser)
	report := e.fixtures.CreateReport(ctx, "strict", author.ID, models.VisibilityPublic, nil)

	for _, v := range []int{0, 6} {
		rec := submit(t, e, rater, report.ID.Hex(), v)
		if rec.Code != 400 {
			t.Errorf("value %d: status = %d, want 400", v, rec.Code)
		}
	}
}

// Every submit notifies the author, overwrites included.
func TestHandleSubmitRating_NotifiesOnEverySubmit(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	author := e.fixtures.CreateUser(ctx, "Notified Author", models.RoleUser)
	rater := e.fixtures.CreateUser(ctx, "Rater", models.RoleUser)
	report := e.fixtures.CreateReport(ctx, "noted", author.ID, models.VisibilityPublic, nil)

	if rec := submit(t, e, rater, report.ID.Hex(), 4); rec.Code != 201 {
		t.Fatalf("first rating: %d", rec.Code)
	}
	if rec := submit(t, e, rater, report.ID.Hex(), 2); rec.Code != 200 {
		t.Fatalf("overwrite: %d", rec.Code)
	}

	e.notifier.Stop()
	got, err := notificationstore.New(e.db).ListByUser(ctx, author.ID, nil, 0)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("author got %d notifications, want 2 (create and overwrite)", len(got))
	}
	for _, n := range got {
		if n.Type != models.NotifyRating {
			t.Errorf("notification type = %q, want %q", n.Type, models.NotifyRating)
		}
	}
}

func TestHandleDeleteRating(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	author := e.fixtures.CreateUser(ctx, "Author", models.RoleUser)
	rater := e.fixtures.CreateUser(ctx, "Fickle Rater", models.RoleUser)
	report := e.fixtures.CreateReport(ctx, "withdrawn", author.ID, models.VisibilityPublic, nil)

	del := func() *httptest.ResponseRecorder {
		req := testutil.SignedInRequest("DELETE", "/api/reports/"+report.ID.Hex()+"/ratings", nil, rater)
		req = testutil.WithChiURLParam(req, "reportID", report.ID.Hex())
		rec := httptest.NewRecorder()
		e.handler.HandleDeleteRating(rec, req)
		return rec
	}

	// Nothing to withdraw yet.
	if rec := del(); rec.Code != 404 {
		t.Errorf("delete without rating: status = %d, want 404", rec.Code)
	}

	if rec := submit(t, e, rater, report.ID.Hex(), 4); rec.Code != 201 {
		t.Fatalf("submit: %d", rec.Code)
	}
	rec := del()
	if rec.Code != 200 {
		t.Fatalf("delete: status = %d, want 200", rec.Code)
	}
	var resp struct {
		AverageRating float64 `json:"averageRating"`
		RatingCount   int     `json:"ratingCount"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AverageRating != 0 || resp.RatingCount != 0 {
		t.Errorf("aggregate after withdrawal = (%v, %d), want (0, 0)", resp.AverageRating, resp.RatingCount)
	}
}

func TestServeRatingsList_HiddenReportIs404(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	author := e.fixtures.CreateUser(ctx, "Private Author", models.RoleUser)
	outsider := e.fixtures.CreateUser(ctx, "Outsider", models.RoleUser)
	report := e.fixtures.CreateReport(ctx, "secret", author.ID, models.VisibilityPrivate, nil)

	req := testutil.SignedInRequest("GET", "/api/reports/"+report.ID.Hex()+"/ratings", nil, outsider)
	req = testutil.WithChiURLParam(req, "reportID", report.ID.Hex())
	rec := httptest.NewRecorder()
	e.handler.ServeRatingsList(rec, req)
	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
