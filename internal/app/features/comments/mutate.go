// internal/app/features/comments/mutate.go
package comments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	commentstore "github.com/dalemusser/azubihub/internal/app/store/comments"
	reportstore "github.com/dalemusser/azubihub/internal/app/store/reports"
	"github.com/dalemusser/azubihub/internal/app/policy/commentpolicy"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *Handler) commentFromPath(ctx context.Context, r *http.Request) (models.Comment, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.Comment{}, httperr.New(httperr.NotFound, "Comment not found.")
	}
	c, err := commentstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, commentstore.ErrNotFound) {
			return models.Comment{}, httperr.New(httperr.NotFound, "Comment not found.")
		}
		return models.Comment{}, err
	}
	return c, nil
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

// HandleUpdateComment rewrites the comment text. Author or platform
// admin.
func (h *Handler) HandleUpdateComment(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	var req updateCommentRequest
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

	comment, err := h.commentFromPath(ctx, r)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	if !commentpolicy.CanEdit(uid, role, comment) {
		httperr.WriteKind(w, httperr.Forbidden, "You do not have permission to edit this comment.")
		return
	}

	updated, err := commentstore.New(h.DB).UpdateContent(ctx, comment.ID, content)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, updated)
}

// HandleDeleteComment removes a comment and its replies. Author,
// platform admin, or the report's author; report authors moderate the
// threads on their own reports.
func (h *Handler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	comment, err := h.commentFromPath(ctx, r)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	var reportAuthorID primitive.ObjectID
	if report, err := reportstore.New(h.DB).GetByID(ctx, comment.ReportID); err == nil {
		reportAuthorID = report.AuthorID
	} else if !errors.Is(err, reportstore.ErrNotFound) {
		httperr.Write(w, err, h.Log)
		return
	}
	if !commentpolicy.CanDelete(uid, role, comment, reportAuthorID) {
		httperr.WriteKind(w, httperr.Forbidden, "You do not have permission to delete this comment.")
		return
	}

	if _, err := commentstore.New(h.DB).Delete(ctx, comment.ID); err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
