// internal/app/features/comments/list.go
package comments

import (
	"context"
	"net/http"

	commentstore "github.com/dalemusser/azubihub/internal/app/store/comments"
	membershipstore "github.com/dalemusser/azubihub/internal/app/store/memberships"
	userstore "github.com/dalemusser/azubihub/internal/app/store/users"
	"github.com/dalemusser/azubihub/internal/app/policy/visibility"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type commentResponse struct {
	models.Comment
	AuthorName  string            `json:"authorName"`
	AuthorImage string            `json:"authorImage,omitempty"`
	Replies     []commentResponse `json:"replies,omitempty"`
}

// ServeCommentsList returns the report's thread: top-level comments in
// creation order, each carrying its replies.
func (h *Handler) ServeCommentsList(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actor := visibility.Actor{ID: uid, Role: role}
	report, err := h.reportForActor(ctx, r, actor, membershipstore.New(h.DB))
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	rows, err := commentstore.New(h.DB).ListByReport(ctx, report.ID)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	authorIDs := make([]primitive.ObjectID, 0, len(rows))
	for _, c := range rows {
		authorIDs = append(authorIDs, c.AuthorID)
	}
	users, err := userstore.New(h.DB).GetMany(ctx, authorIDs)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	wrap := func(c models.Comment) commentResponse {
		u := users[c.AuthorID]
		return commentResponse{Comment: c, AuthorName: u.Name, AuthorImage: u.Image}
	}

	out := []commentResponse{}
	index := map[primitive.ObjectID]int{}
	for _, c := range rows {
		if c.ParentID == nil {
			out = append(out, wrap(c))
			index[c.ID] = len(out) - 1
		}
	}
	for _, c := range rows {
		if c.ParentID == nil {
			continue
		}
		if i, ok := index[*c.ParentID]; ok {
			out[i].Replies = append(out[i].Replies, wrap(c))
		}
	}

	httperr.WriteJSON(w, http.StatusOK, out)
}
