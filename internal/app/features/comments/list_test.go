package comments_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/azubihub/internal/domain/models"
	"github.com/dalemusser/azubihub/internal/testutil"
)

type threadEntry struct {
	models.Comment
	AuthorName string        `json:"authorName"`
	Replies    []threadEntry `json:"replies"`
}

func TestServeCommentsList_AssemblesThread(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	author := e.fixtures.CreateUser(ctx, "Thread Author", models.RoleUser)
	replier := e.fixtures.CreateUser(ctx, "Thread Replier", models.RoleUser)
	report := e.fixtures.CreateReport(ctx, "discussed", author.ID, models.VisibilityPublic, nil)

	first := e.fixtures.CreateComment(ctx, report.ID, author.ID, "first", nil)
	e.fixtures.CreateComment(ctx, report.ID, replier.ID, "reply to first", &first.ID)
	e.fixtures.CreateComment(ctx, report.ID, replier.ID, "second", nil)

	// Threads are for signed-in readers only.
	anon := httptest.NewRequest("GET", "/api/reports/"+report.ID.Hex()+"/comments", nil)
	anon = testutil.WithChiURLParam(anon, "reportID", report.ID.Hex())
	rec := httptest.NewRecorder()
	e.handler.ServeCommentsList(rec, anon)
	if rec.Code != 401 {
		t.Fatalf("anonymous list status = %d, want 401", rec.Code)
	}

	req := testutil.SignedInRequest("GET", "/api/reports/"+report.ID.Hex()+"/comments", nil, replier)
	req = testutil.WithChiURLParam(req, "reportID", report.ID.Hex())
	rec = httptest.NewRecorder()
	e.handler.ServeCommentsList(rec, req)
	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var thread []threadEntry
	if err := json.NewDecoder(rec.Body).Decode(&thread); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(thread) != 2 {
		t.Fatalf("got %d top-level comments, want 2", len(thread))
	}
	if thread[0].Content != "first" || thread[1].Content != "second" {
		t.Errorf("top-level order wrong: %q, %q", thread[0].Content, thread[1].Content)
	}
	if len(thread[0].Replies) != 1 || thread[0].Replies[0].Content != "reply to first" {
		t.Errorf("first comment replies = %v, want the one reply", thread[0].Replies)
	}
	if len(thread[1].Replies) != 0 {
		t.Errorf("second comment should have no replies")
	}
	if thread[0].AuthorName != "Thread Author" {
		t.Errorf("authorName = %q, want Thread Author", thread[0].AuthorName)
	}
}

func TestHandleUpdateComment_AuthorOrAdmin(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	author := e.fixtures.CreateUser(ctx, "Comment Author", models.RoleUser)
	stranger := e.fixtures.CreateUser(ctx, "Stranger", models.RoleUser)
	admin := e.fixtures.CreateUser(ctx, "Admin", models.RoleAdmin)
	report := e.fixtures.CreateReport(ctx, "edited", author.ID, models.VisibilityPublic, nil)
	comment := e.fixtures.CreateComment(ctx, report.ID, author.ID, "original", nil)

	update := func(u models.User, body string) *httptest.ResponseRecorder {
		req := testutil.SignedInRequest("PUT", "/api/comments/"+comment.ID.Hex(), strings.NewReader(body), u)
		req = testutil.WithChiURLParam(req, "id", comment.ID.Hex())
		rec := httptest.NewRecorder()
		e.handler.HandleUpdateComment(rec, req)
		return rec
	}

	if rec := update(stranger, `{"content":"hijacked"}`); rec.Code != 403 {
		t.Errorf("stranger edit status = %d, want 403", rec.Code)
	}
	if rec := update(author, `{"content":"revised"}`); rec.Code != 200 {
		t.Errorf("author edit status = %d, want 200", rec.Code)
	}
	// Platform admins may rewrite any comment.
	if rec := update(admin, `{"content":"moderated"}`); rec.Code != 200 {
		t.Errorf("admin edit status = %d, want 200", rec.Code)
	}
}

func TestHandleDeleteComment(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	author := e.fixtures.CreateUser(ctx, "Comment Author", models.RoleUser)
	stranger := e.fixtures.CreateUser(ctx, "Stranger", models.RoleUser)
	admin := e.fixtures.CreateUser(ctx, "Admin", models.RoleAdmin)
	report := e.fixtures.CreateReport(ctx, "moderated", author.ID, models.VisibilityPublic, nil)

	del := func(u models.User, commentID string) *httptest.ResponseRecorder {
		req := testutil.SignedInRequest("DELETE", "/api/comments/"+commentID, nil, u)
		req = testutil.WithChiURLParam(req, "id", commentID)
		rec := httptest.NewRecorder()
		e.handler.HandleDeleteComment(rec, req)
		return rec
	}

	c1 := e.fixtures.CreateComment(ctx, report.ID, author.ID, "mine", nil)
	if rec := del(stranger, c1.ID.Hex()); rec.Code != 403 {
		t.Errorf("stranger delete status = %d, want 403", rec.Code)
	}
	if rec := del(author, c1.ID.Hex()); rec.Code != 200 {
		t.Errorf("author delete status = %d, want 200", rec.Code)
	}

	// Platform admins may delete anyone's comment.
	c2 := e.fixtures.CreateComment(ctx, report.ID, author.ID, "offensive", nil)
	if rec := del(admin, c2.ID.Hex()); rec.Code != 200 {
		t.Errorf("admin delete status = %d, want 200", rec.Code)
	}
}

// The report's author moderates their own thread, even for comments
// other people wrote.
func TestHandleDeleteComment_ReportAuthorModerates(t *testing.T) {
	e := setup(t)
	ctx := testutil.TestContext(t)

	reportAuthor := e.fixtures.CreateUser(ctx, "Report Author", models.RoleUser)
	commenter := e.fixtures.CreateUser(ctx, "Commenter", models.RoleUser)
	report := e.fixtures.CreateReport(ctx, "my thread", reportAuthor.ID, models.VisibilityPublic, nil)
	other := e.fixtures.CreateReport(ctx, "not my thread", commenter.ID, models.VisibilityPublic, nil)

	del := func(u models.User, commentID string) *httptest.ResponseRecorder {
		req := testutil.SignedInRequest("DELETE", "/api/comments/"+commentID, nil, u)
		req = testutil.WithChiURLParam(req, "id", commentID)
		rec := httptest.NewRecorder()
		e.handler.HandleDeleteComment(rec, req)
		return rec
	}

	onMine := e.fixtures.CreateComment(ctx, report.ID, commenter.ID, "spam", nil)
	if rec := del(reportAuthor, onMine.ID.Hex()); rec.Code != 200 {
		t.Errorf("report author delete status = %d, want 200", rec.Code)
	}

	// Owning some other report grants nothing here.
	elsewhere := e.fixtures.CreateComment(ctx, other.ID, commenter.ID, "fine", nil)
	if rec := del(reportAuthor, elsewhere.ID.Hex()); rec.Code != 403 {
		t.Errorf("unrelated report author delete status = %d, want 403", rec.Code)
	}
}
