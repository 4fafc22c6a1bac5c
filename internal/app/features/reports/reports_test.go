package reports_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/azubihub/internal/app/features/reports"
	reportstore "github.com/dalemusser/azubihub/internal/app/store/reports"
	"github.com/dalemusser/azubihub/internal/app/system/storage"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"github.com/dalemusser/azubihub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type env struct {
	db       *mongo.Database
	handler  *reports.Handler
	fixtures *testutil.Fixtures
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	files, err := storage.NewLocal(t.TempDir(), "/files")
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}
	return env{
		db:       db,
		handler:  reports.NewHandler(db, files, zap.NewNop()),
		fixtures: testutil.NewFixtures(t, db),
	}
}

func viewReport(t *testing.T, e env, req *http.Request, reportID string) *httptest.ResponseRecorder {
	t.Helper()
	req = testutil.WithChiURLParam(req, "id", reportID)
	rec := httptest.NewRecorder()
	e.handler.ServeReportView(rec, req)
	return rec
}

func TestServeReportView_Visibility(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	author := e.fixtures.CreateUser(ctx, "Private Author", models.RoleUser)
	other := e.fixtures.CreateUser(ctx, "Other User", models.RoleUser)
	admin := e.fixtures.CreateUser(ctx, "Platform Admin", models.RoleAdmin)
	private := e.fixtures.CreateReport(ctx, "secret", author.ID, models.VisibilityPrivate, nil)
	public := e.fixtures.CreateReport(ctx, "open", author.ID, models.VisibilityPublic, nil)

	// The author reads their own private report.
	rec := viewReport(t, e, testutil.SignedInRequest("GET", "/api/reports/"+private.ID.Hex(), nil, author), private.ID.Hex())
	if rec.Code != 200 {
		t.Errorf("author view status = %d, want 200", rec.Code)
	}

	// Another user gets 404, not 403: existence stays hidden.
	rec = viewReport(t, e, testutil.SignedInRequest("GET", "/api/reports/"+private.ID.Hex(), nil, other), private.ID.Hex())
	if rec.Code != 404 {
		t.Errorf("other user view status = %d, want 404", rec.Code)
	}

	// Admins can delete any report but cannot read a private one.
	rec = viewReport(t, e, testutil.SignedInRequest("GET", "/api/reports/"+private.ID.Hex(), nil, admin), private.ID.Hex())
	if rec.Code != 404 {
		t.Errorf("admin view of private report status = %d, want 404", rec.Code)
	}

	// PUBLIC means every signed-in user; anonymous visitors get 401.
	rec = viewReport(t, e, httptest.NewRequest("GET", "/api/reports/"+public.ID.Hex(), nil), public.ID.Hex())
	if rec.Code != 401 {
		t.Errorf("anonymous view of public report status = %d, want 401", rec.Code)
	}

	rec = viewReport(t, e, testutil.SignedInRequest("GET", "/api/reports/"+public.ID.Hex(), nil, other), public.ID.Hex())
	if rec.Code != 200 {
		t.Errorf("signed-in view of public report status = %d, want 200", rec.Code)
	}
	var resp struct {
		AuthorName string `json:"authorName"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AuthorName != "Private Author" {
		t.Errorf("authorName = %q, want the author's display name", resp.AuthorName)
	}
}

func TestServeReportView_GroupVisibility(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	author := e.fixtures.CreateUser(ctx, "Group Author", models.RoleUser)
	member := e.fixtures.CreateUser(ctx, "Group Member", models.RoleUser)
	outsider := e.fixtures.CreateUser(ctx, "Outsider", models.RoleUser)
	group := e.fixtures.CreateGroup(ctx, "Readers", author.ID, true)
	e.fixtures.CreateMembership(ctx, group.ID, author.ID, models.GroupRoleAdmin)
	e.fixtures.CreateMembership(ctx, group.ID, member.ID, models.GroupRoleMember)
	report := e.fixtures.CreateReport(ctx, "shared", author.ID, models.VisibilityGroup, &group.ID)

	rec := viewReport(t, e, testutil.SignedInRequest("GET", "/", nil, member), report.ID.Hex())
	if rec.Code != 200 {
		t.Errorf("member view status = %d, want 200", rec.Code)
	}
	rec = viewReport(t, e, testutil.SignedInRequest("GET", "/", nil, outsider), report.ID.Hex())
	if rec.Code != 404 {
		t.Errorf("outsider view status = %d, want 404", rec.Code)
	}
}

// Feed entries carry the author's display name and the comment count
// alongside the report document.
func TestServeReportsList_EnrichedEntries(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	author := e.fixtures.CreateUser(ctx, "Lena Author", models.RoleUser)
	reader := e.fixtures.CreateUser(ctx, "Reader", models.RoleUser)
	report := e.fixtures.CreateReport(ctx, "discussed", author.ID, models.VisibilityPublic, nil)
	e.fixtures.CreateComment(ctx, report.ID, reader.ID, "first", nil)
	e.fixtures.CreateComment(ctx, report.ID, reader.ID, "second", nil)
	e.fixtures.CreateRating(ctx, report.ID, reader.ID, 4)

	// The feed requires a session.
	rec := httptest.NewRecorder()
	e.handler.ServeReportsList(rec, httptest.NewRequest("GET", "/api/reports", nil))
	if rec.Code != 401 {
		t.Fatalf("anonymous list status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	e.handler.ServeReportsList(rec, testutil.SignedInRequest("GET", "/api/reports", nil, reader))
	if rec.Code != 200 {
		t.Fatalf("list status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var entries []struct {
		Title        string `json:"title"`
		AuthorName   string `json:"authorName"`
		CommentCount int64  `json:"commentCount"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("feed has %d entries, want 1", len(entries))
	}
	if entries[0].AuthorName != "Lena Author" {
		t.Errorf("authorName = %q, want the author's display name", entries[0].AuthorName)
	}
	if entries[0].CommentCount != 2 {
		t.Errorf("commentCount = %d, want 2", entries[0].CommentCount)
	}
}

func updateReport(t *testing.T, e env, u models.User, reportID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.SignedInRequest("PUT", "/api/reports/"+reportID, strings.NewReader(body), u)
	req = testutil.WithChiURLParam(req, "id", reportID)
	rec := httptest.NewRecorder()
	e.handler.HandleUpdateReport(rec, req)
	return rec
}

func TestHandleUpdateReport_AuthorOnly(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	author := e.fixtures.CreateUser(ctx, "Author", models.RoleUser)
	stranger := e.fixtures.CreateUser(ctx, "Stranger", models.RoleUser)
	report := e.fixtures.CreateReport(ctx, "original", author.ID, models.VisibilityPublic, nil)

	if rec := updateReport(t, e, stranger, report.ID.Hex(), `{"title":"hijacked"}`); rec.Code != 403 {
		t.Errorf("stranger update status = %d, want 403", rec.Code)
	}

	rec := updateReport(t, e, author, report.ID.Hex(), `{"title":"revised"}`)
	if rec.Code != 200 {
		t.Fatalf("author update status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var updated models.Report
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Title != "revised" {
		t.Errorf("title = %q, want revised", updated.Title)
	}
}

func TestHandleUpdateReport_TrainingYearBounds(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	author := e.fixtures.CreateUser(ctx, "Author", models.RoleUser)
	report := e.fixtures.CreateReport(ctx, "dated", author.ID, models.VisibilityPublic, nil)

	// German vocational training runs three years.
	if rec := updateReport(t, e, author, report.ID.Hex(), `{"trainingYear":4}`); rec.Code != 400 {
		t.Errorf("year 4 status = %d, want 400", rec.Code)
	}
	if rec := updateReport(t, e, author, report.ID.Hex(), `{"trainingYear":0}`); rec.Code != 400 {
		t.Errorf("year 0 status = %d, want 400", rec.Code)
	}
	if rec := updateReport(t, e, author, report.ID.Hex(), `{"trainingYear":3}`); rec.Code != 200 {
		t.Errorf("year 3 status = %d, want 200", rec.Code)
	}
}

// An admin may edit a private report they could not read through the
// view endpoint.
func TestHandleUpdateReport_AdminEditsUnreadableReport(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	author := e.fixtures.CreateUser(ctx, "Author", models.RoleUser)
	admin := e.fixtures.CreateUser(ctx, "Moderator", models.RoleAdmin)
	report := e.fixtures.CreateReport(ctx, "flagged title", author.ID, models.VisibilityPrivate, nil)

	if rec := viewReport(t, e, testutil.SignedInRequest("GET", "/", nil, admin), report.ID.Hex()); rec.Code != 404 {
		t.Fatalf("admin view status = %d, want 404", rec.Code)
	}
	if rec := updateReport(t, e, admin, report.ID.Hex(), `{"title":"moderated"}`); rec.Code != 200 {
		t.Errorf("admin update status = %d, want 200", rec.Code)
	}
}

func TestHandleUpdateReport_VisibilityTransitions(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	author := e.fixtures.CreateUser(ctx, "Author", models.RoleUser)
	group := e.fixtures.CreateGroup(ctx, "Home Group", author.ID, true)
	e.fixtures.CreateMembership(ctx, group.ID, author.ID, models.GroupRoleAdmin)
	strange := e.fixtures.CreateGroup(ctx, "Not Mine", e.fixtures.CreateUser(ctx, "Else", models.RoleUser).ID, true)

	report := e.fixtures.CreateReport(ctx, "wandering", author.ID, models.VisibilityPrivate, nil)

	// GROUP without a group id is invalid.
	if rec := updateReport(t, e, author, report.ID.Hex(), `{"visibility":"GROUP"}`); rec.Code != 400 {
		t.Errorf("GROUP without groupId status = %d, want 400", rec.Code)
	}
	// GROUP pointing at a group the author is not in is forbidden.
	body := `{"visibility":"GROUP","groupId":"` + strange.ID.Hex() + `"}`
	if rec := updateReport(t, e, author, report.ID.Hex(), body); rec.Code != 403 {
		t.Errorf("foreign group status = %d, want 403", rec.Code)
	}

	body = `{"visibility":"GROUP","groupId":"` + group.ID.Hex() + `"}`
	rec := updateReport(t, e, author, report.ID.Hex(), body)
	if rec.Code != 200 {
		t.Fatalf("to GROUP status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var updated models.Report
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.GroupID == nil || *updated.GroupID != group.ID {
		t.Error("report should now be bound to the group")
	}

	// Leaving GROUP visibility drops the group binding.
	rec = updateReport(t, e, author, report.ID.Hex(), `{"visibility":"PUBLIC"}`)
	if rec.Code != 200 {
		t.Fatalf("to PUBLIC status = %d", rec.Code)
	}
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.GroupID != nil {
		t.Error("group binding should be cleared on leaving GROUP visibility")
	}
}

func TestHandleDeleteReport_Cascades(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	author := e.fixtures.CreateUser(ctx, "Author", models.RoleUser)
	stranger := e.fixtures.CreateUser(ctx, "Stranger", models.RoleUser)
	report := e.fixtures.CreateReport(ctx, "doomed", author.ID, models.VisibilityPublic, nil)
	e.fixtures.CreateComment(ctx, report.ID, stranger.ID, "gone too", nil)
	e.fixtures.CreateRating(ctx, report.ID, stranger.ID, 4)

	del := func(u models.User) *httptest.ResponseRecorder {
		req := testutil.SignedInRequest("DELETE", "/api/reports/"+report.ID.Hex(), nil, u)
		req = testutil.WithChiURLParam(req, "id", report.ID.Hex())
		rec := httptest.NewRecorder()
		e.handler.HandleDeleteReport(rec, req)
		return rec
	}

	if rec := del(stranger); rec.Code != 403 {
		t.Errorf("stranger delete status = %d, want 403", rec.Code)
	}
	if rec := del(author); rec.Code != 200 {
		t.Fatalf("author delete status = %d, want 200", rec.Code)
	}

	if _, err := reportstore.New(e.db).GetByID(ctx, report.ID); err == nil {
		t.Error("report document should be gone")
	}
	for _, coll := range []string{"comments", "ratings"} {
		n, err := e.db.Collection(coll).CountDocuments(ctx, bson.M{"report_id": report.ID})
		if err != nil {
			t.Fatalf("count %s: %v", coll, err)
		}
		if n != 0 {
			t.Errorf("%s not cascaded, %d rows remain", coll, n)
		}
	}
}

func TestHandleDownload(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	author := e.fixtures.CreateUser(ctx, "Author", models.RoleUser)
	outsider := e.fixtures.CreateUser(ctx, "Outsider", models.RoleUser)
	public := e.fixtures.CreateReport(ctx, "fetchable", author.ID, models.VisibilityPublic, nil)
	private := e.fixtures.CreateReport(ctx, "hidden", author.ID, models.VisibilityPrivate, nil)

	download := func(u *models.User, reportID string) *httptest.ResponseRecorder {
		var req *http.Request
		if u != nil {
			req = testutil.SignedInRequest("GET", "/api/reports/"+reportID+"/download", nil, *u)
		} else {
			req = httptest.NewRequest("GET", "/api/reports/"+reportID+"/download", nil)
		}
		req = testutil.WithChiURLParam(req, "id", reportID)
		rec := httptest.NewRecorder()
		e.handler.HandleDownload(rec, req)
		return rec
	}

	// Downloads need a session even for public reports.
	if rec := download(nil, public.ID.Hex()); rec.Code != 401 {
		t.Errorf("anonymous download status = %d, want 401", rec.Code)
	}

	rec := download(&outsider, public.ID.Hex())
	if rec.Code != 200 {
		t.Fatalf("public download status = %d, want 200", rec.Code)
	}
	var resp struct {
		URL      string `json:"url"`
		FileName string `json:"fileName"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.URL == "" || resp.FileName != public.FileName {
		t.Errorf("response = %+v, want a URL and the stored file name", resp)
	}

	got, err := reportstore.New(e.db).GetByID(ctx, public.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DownloadCount != 1 {
		t.Errorf("download_count = %d, want 1", got.DownloadCount)
	}

	// Download access follows viewing access.
	if rec := download(&outsider, private.ID.Hex()); rec.Code != 404 {
		t.Errorf("private download status = %d, want 404", rec.Code)
	}
}
