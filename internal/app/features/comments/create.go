// internal/app/features/comments/create.go
package comments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	commentstore "github.com/dalemusser/azubihub/internal/app/store/comments"
	membershipstore "github.com/dalemusser/azubihub/internal/app/store/memberships"
	"github.com/dalemusser/azubihub/internal/app/policy/visibility"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/notify"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createCommentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parentId"`
}

// HandleCreateComment posts a comment or a reply. Replies to replies
// are rejected; threads stay one level deep.
//
// Two notifications can result: one to the report's author, one to the
// parent comment's author on a reply. They fire independently, so a
// reply to the report author's own comment notifies them twice.
func (h *Handler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.WriteKind(w, httperr.Validation, "Invalid request body.")
		return
	}
	content := htmlsanitize.Sanitize(req.Content)
	if strings.TrimSpace(htmlsanitize.Strip(content)) == "" {
		httperr.WriteKind(w, httperr.Validation, "Comment content is required.")
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

	var parentID *primitive.ObjectID
	if req.ParentID != nil && *req.ParentID != "" {
		pid, err := primitive.ObjectIDFromHex(*req.ParentID)
		if err != nil {
			httperr.WriteKind(w, httperr.Validation, "Invalid parentId.")
			return
		}
		parentID = &pid
	}

	comments := commentstore.New(h.DB)
	comment, err := comments.Create(ctx, models.Comment{
		Content:  content,
		AuthorID: uid,
		ReportID: report.ID,
		ParentID: parentID,
	})
	if err != nil {
		switch {
		case errors.Is(err, commentstore.ErrNotFound):
			httperr.WriteKind(w, httperr.NotFound, "Parent comment not found.")
		case errors.Is(err, commentstore.ErrNestedReply):
			httperr.WriteKind(w, httperr.Validation, "Replies to replies are not allowed.")
		default:
			httperr.Write(w, err, h.Log)
		}
		return
	}

	link := "/reports/" + report.ID.Hex()
	if report.AuthorID != uid {
		h.Notifier.Publish(notify.Event{
			UserID:  report.AuthorID,
			Type:    models.NotifyComment,
			Title:   "New comment",
			Message: fmt.Sprintf("%s commented on your report %q.", name, report.Title),
			Link:    link,
		})
	}
	if parentID != nil {
		if parent, err := comments.GetByID(ctx, *parentID); err == nil && parent.AuthorID != uid {
			h.Notifier.Publish(notify.Event{
				UserID:  parent.AuthorID,
				Type:    models.NotifyComment,
				Title:   "New reply",
				Message: name + " replied to your comment.",
				Link:    link,
			})
		}
	}

	httperr.WriteJSON(w, http.StatusCreated, comment)
}
