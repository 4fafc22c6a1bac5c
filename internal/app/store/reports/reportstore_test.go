package reportstore_test

import (
	"errors"
	"testing"

	reportstore "github.com/dalemusser/azubihub/internal/app/store/reports"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"github.com/dalemusser/azubihub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func titles(reports []models.Report) map[string]bool {
	out := make(map[string]bool, len(reports))
	for _, r := range reports {
		out[r.Title] = true
	}
	return out
}

// seedFeed creates one author with a report in each visibility, a group
// the author owns, and a second user who is not a member.
type feed struct {
	author  models.User
	other   models.User
	groupID primitive.ObjectID
}

func seedFeed(t *testing.T, f *testutil.Fixtures) feed {
	t.Helper()
	ctx := testutil.TestContext(t)

	author := f.CreateUser(ctx, "Feed Author", models.RoleUser)
	other := f.CreateUser(ctx, "Feed Other", models.RoleUser)
	group := f.CreateGroup(ctx, "Feed Group", author.ID, true)
	f.CreateMembership(ctx, group.ID, author.ID, models.GroupRoleAdmin)

	f.CreateReport(ctx, "public one", author.ID, models.VisibilityPublic, nil)
	f.CreateReport(ctx, "private one", author.ID, models.VisibilityPrivate, nil)
	f.CreateReport(ctx, "group one", author.ID, models.VisibilityGroup, &group.ID)
	return feed{author: author, other: other, groupID: group.ID}
}

// Handlers reject anonymous requests before reaching the store; a zero
// viewer still falls back to the public slice rather than leaking.
func TestList_ZeroViewerFallsBackToPublic(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	seedFeed(t, f)

	store := reportstore.New(db)
	got, err := store.List(ctx, reportstore.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Title != "public one" {
		t.Errorf("zero-viewer feed = %v, want only the public report", titles(got))
	}
}

func TestList_AuthorSeesOwnEverything(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	seed := seedFeed(t, f)

	store := reportstore.New(db)
	got, err := store.List(ctx, reportstore.Filter{
		ViewerID:       seed.author.ID,
		MemberGroupIDs: []primitive.ObjectID{seed.groupID},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("author feed has %d reports, want 3 (got %v)", len(got), titles(got))
	}
}

func TestList_NonMemberDoesNotSeeGroupReports(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	seed := seedFeed(t, f)

	store := reportstore.New(db)
	got, err := store.List(ctx, reportstore.Filter{ViewerID: seed.other.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	names := titles(got)
	if !names["public one"] {
		t.Error("public report missing from the feed")
	}
	if names["private one"] || names["group one"] {
		t.Errorf("feed leaked restricted reports: %v", names)
	}
}

func TestList_MemberSeesGroupReports(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	seed := seedFeed(t, f)
	f.CreateMembership(ctx, seed.groupID, seed.other.ID, models.GroupRoleMember)

	store := reportstore.New(db)
	got, err := store.List(ctx, reportstore.Filter{
		ViewerID:       seed.other.ID,
		MemberGroupIDs: []primitive.ObjectID{seed.groupID},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	names := titles(got)
	if !names["group one"] {
		t.Error("member should see the group report in their feed")
	}
	if names["private one"] {
		t.Error("membership must not expose someone else's private report")
	}
}

// A group listing always contains the group's PUBLIC reports, even for
// viewers outside the group.
func TestList_GroupScopeIncludesPublicForNonMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	author := f.CreateUser(ctx, "Group Author", models.RoleUser)
	outsider := f.CreateUser(ctx, "Outsider", models.RoleUser)
	group := f.CreateGroup(ctx, "Scoped", author.ID, true)
	f.CreateMembership(ctx, group.ID, author.ID, models.GroupRoleAdmin)

	f.CreateReport(ctx, "group internal", author.ID, models.VisibilityGroup, &group.ID)
	f.CreateReport(ctx, "group public", author.ID, models.VisibilityPublic, &group.ID)

	store := reportstore.New(db)

	got, err := store.List(ctx, reportstore.Filter{
		ViewerID: outsider.ID,
		GroupID:  &group.ID,
	})
	if err != nil {
		t.Fatalf("list as outsider: %v", err)
	}
	names := titles(got)
	if !names["group public"] {
		t.Error("group's public report should show for non-members")
	}
	if names["group internal"] {
		t.Error("GROUP-visible report leaked to a non-member")
	}

	got, err = store.List(ctx, reportstore.Filter{
		ViewerID:       outsider.ID,
		MemberGroupIDs: []primitive.ObjectID{group.ID},
		GroupID:        &group.ID,
	})
	if err != nil {
		t.Fatalf("list as member: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("member sees %d reports in the group, want 2", len(got))
	}
}

// An explicit visibility=GROUP filter widens: it keeps every PUBLIC
// report alongside the group slice the viewer may see, instead of
// narrowing the feed to GROUP documents only.
func TestList_ExplicitGroupVisibilityWidens(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	seed := seedFeed(t, f)

	store := reportstore.New(db)

	// A non-member still gets the public slice out of a GROUP query.
	got, err := store.List(ctx, reportstore.Filter{
		ViewerID:   seed.other.ID,
		Visibility: models.VisibilityGroup,
	})
	if err != nil {
		t.Fatalf("list as non-member: %v", err)
	}
	names := titles(got)
	if !names["public one"] {
		t.Error("GROUP query dropped the public reports")
	}
	if names["group one"] || names["private one"] {
		t.Errorf("GROUP query leaked restricted reports: %v", names)
	}

	// A member gets their group slice plus the public reports.
	got, err = store.List(ctx, reportstore.Filter{
		ViewerID:       seed.author.ID,
		MemberGroupIDs: []primitive.ObjectID{seed.groupID},
		Visibility:     models.VisibilityGroup,
	})
	if err != nil {
		t.Fatalf("list as member: %v", err)
	}
	names = titles(got)
	if !names["public one"] || !names["group one"] {
		t.Errorf("member GROUP query = %v, want the public and group reports", names)
	}
	if names["private one"] {
		t.Error("GROUP query must not include private reports")
	}

	// An explicit PUBLIC filter still narrows.
	got, err = store.List(ctx, reportstore.Filter{
		ViewerID:   seed.author.ID,
		Visibility: models.VisibilityPublic,
	})
	if err != nil {
		t.Fatalf("list public: %v", err)
	}
	if len(got) != 1 || got[0].Title != "public one" {
		t.Errorf("PUBLIC filter = %v, want only the public report", titles(got))
	}
}

func TestList_NarrowingFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	author := f.CreateUser(ctx, "Filter Author", models.RoleUser)
	store := reportstore.New(db)

	mk := func(title, profession string, year int, tags []string) {
		r := models.Report{
			Title:        title,
			FileURL:      "https://files.test.example/" + title,
			FileName:     title + ".pdf",
			FileType:     models.FileTypePDF,
			Visibility:   models.VisibilityPublic,
			AuthorID:     author.ID,
			Profession:   profession,
			TrainingYear: year,
			Tags:         tags,
		}
		if _, err := store.Create(ctx, r); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	mk("mechanics week", "Industriemechaniker", 2, []string{"cnc", "drehen"})
	mk("electronics week", "Elektroniker", 2, []string{"sps"})
	mk("mechanics advanced", "Industriemechaniker", 3, []string{"cnc"})

	got, err := store.List(ctx, reportstore.Filter{Profession: "Industriemechaniker", TrainingYear: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Title != "mechanics week" {
		t.Errorf("profession+year filter = %v", titles(got))
	}

	// Any listed tag matches, not all of them.
	got, err = store.List(ctx, reportstore.Filter{Tags: []string{"drehen", "sps"}})
	if err != nil {
		t.Fatalf("list by tags: %v", err)
	}
	names := titles(got)
	if len(got) != 2 || !names["mechanics week"] || !names["electronics week"] {
		t.Errorf("tags filter = %v, want the drehen and sps reports", names)
	}

	got, err = store.List(ctx, reportstore.Filter{Search: "ELECTRONICS"})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if len(got) != 1 || got[0].Title != "electronics week" {
		t.Errorf("case-insensitive search = %v", titles(got))
	}
}

func TestUpdate_ClearGroupOnVisibilityChange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	author := f.CreateUser(ctx, "Author", models.RoleUser)
	group := f.CreateGroup(ctx, "Home", author.ID, true)
	report := f.CreateReport(ctx, "moving", author.ID, models.VisibilityGroup, &group.ID)

	store := reportstore.New(db)
	vis := models.VisibilityPublic
	var cleared *primitive.ObjectID
	updated, err := store.Update(ctx, report.ID, reportstore.UpdateAttrs{
		Visibility: &vis,
		GroupID:    &cleared,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Visibility != models.VisibilityPublic {
		t.Errorf("visibility = %q, want PUBLIC", updated.Visibility)
	}
	if updated.GroupID != nil {
		t.Error("group_id should have been cleared")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := reportstore.New(db)

	title := "ghost"
	_, err := store.Update(ctx, primitive.NewObjectID(), reportstore.UpdateAttrs{Title: &title})
	if !errors.Is(err, reportstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIncrementDownloadCount_LeavesUpdatedAt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	author := f.CreateUser(ctx, "Author", models.RoleUser)
	report := f.CreateReport(ctx, "downloaded", author.ID, models.VisibilityPublic, nil)

	store := reportstore.New(db)
	if err := store.IncrementDownloadCount(ctx, report.ID); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := store.IncrementDownloadCount(ctx, report.ID); err != nil {
		t.Fatalf("increment: %v", err)
	}

	got, err := store.GetByID(ctx, report.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DownloadCount != 2 {
		t.Errorf("download_count = %d, want 2", got.DownloadCount)
	}
	if !got.UpdatedAt.Equal(report.UpdatedAt) {
		t.Error("a download must not bump updated_at")
	}
}

func TestDeleteByGroup_ReturnsFileURLs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	author := f.CreateUser(ctx, "Author", models.RoleUser)
	group := f.CreateGroup(ctx, "Doomed", author.ID, true)
	f.CreateReport(ctx, "in group a", author.ID, models.VisibilityGroup, &group.ID)
	f.CreateReport(ctx, "in group b", author.ID, models.VisibilityGroup, &group.ID)
	keeper := f.CreateReport(ctx, "elsewhere", author.ID, models.VisibilityPublic, nil)

	store := reportstore.New(db)
	urls, err := store.DeleteByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("delete by group: %v", err)
	}
	if len(urls) != 2 {
		t.Errorf("got %d file urls, want 2", len(urls))
	}
	if _, err := store.GetByID(ctx, keeper.ID); err != nil {
		t.Error("report outside the group should survive")
	}
}
