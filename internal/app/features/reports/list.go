// internal/app/features/reports/list.go
package reports

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	commentstore "github.com/dalemusser/azubihub/internal/app/store/comments"
	membershipstore "github.com/dalemusser/azubihub/internal/app/store/memberships"
	reportstore "github.com/dalemusser/azubihub/internal/app/store/reports"
	userstore "github.com/dalemusser/azubihub/internal/app/store/users"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type reportListEntry struct {
	models.Report
	AuthorName   string `json:"authorName"`
	CommentCount int64  `json:"commentCount"`
}

// ServeReportsList returns the reports the requester may see, newest
// first, each with its author's display name and comment count.
// Without query parameters the requester gets the default feed: all
// PUBLIC reports plus their own. Supported filters: visibility (GROUP
// widens to include PUBLIC), groupId, authorId ("me" for own),
// profession, trainingYear, tags (comma-separated, any may match),
// q (search).
func (h *Handler) ServeReportsList(w http.ResponseWriter, r *http.Request) {
	_, _, uid, signedIn := authz.UserCtx(r)
	if !signedIn {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f := reportstore.Filter{
		ViewerID: uid,
		Search:   r.URL.Query().Get("q"),
	}
	groupIDs, err := membershipstore.New(h.DB).GroupIDsByUser(ctx, uid)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	f.MemberGroupIDs = groupIDs

	q := r.URL.Query()
	if v := q.Get("visibility"); v != "" {
		switch v {
		case models.VisibilityPrivate, models.VisibilityGroup, models.VisibilityPublic:
			f.Visibility = v
		default:
			httperr.WriteKind(w, httperr.Validation, "Visibility must be PRIVATE, GROUP, or PUBLIC.")
			return
		}
	}
	if v := q.Get("groupId"); v != "" {
		gid, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			httperr.WriteKind(w, httperr.Validation, "Invalid groupId.")
			return
		}
		f.GroupID = &gid
	}
	if v := q.Get("authorId"); v != "" {
		if v == "me" {
			f.AuthorID = &uid
		} else {
			aid, err := primitive.ObjectIDFromHex(v)
			if err != nil {
				httperr.WriteKind(w, httperr.Validation, "Invalid authorId.")
				return
			}
			f.AuthorID = &aid
		}
	}
	f.Profession = q.Get("profession")
	if v := q.Get("trainingYear"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			httperr.WriteKind(w, httperr.Validation, "Invalid trainingYear.")
			return
		}
		f.TrainingYear = year
	}
	for _, t := range strings.Split(q.Get("tags"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			f.Tags = append(f.Tags, t)
		}
	}

	rows, err := reportstore.New(h.DB).List(ctx, f)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	reportIDs := make([]primitive.ObjectID, 0, len(rows))
	authorIDs := make([]primitive.ObjectID, 0, len(rows))
	for _, rep := range rows {
		reportIDs = append(reportIDs, rep.ID)
		authorIDs = append(authorIDs, rep.AuthorID)
	}
	counts, err := commentstore.New(h.DB).CountByReports(ctx, reportIDs)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	authors, err := userstore.New(h.DB).GetMany(ctx, authorIDs)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	out := make([]reportListEntry, 0, len(rows))
	for _, rep := range rows {
		out = append(out, reportListEntry{
			Report:       rep,
			AuthorName:   authors[rep.AuthorID].Name,
			CommentCount: counts[rep.ID],
		})
	}
	httperr.WriteJSON(w, http.StatusOK, out)
}
