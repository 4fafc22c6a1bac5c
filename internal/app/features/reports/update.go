// internal/app/features/reports/update.go
package reports

import (
	"context"
	"encoding/json"
	"net/http"

	membershipstore "github.com/dalemusser/azubihub/internal/app/store/memberships"
	reportstore "github.com/dalemusser/azubihub/internal/app/store/reports"
	"github.com/dalemusser/azubihub/internal/app/policy/visibility"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type updateReportRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Visibility   *string   `json:"visibility"`
	GroupID      *string   `json:"groupId"`
	Profession   *string   `json:"profession"`
	TrainingYear *int      `json:"trainingYear"`
	Tags         *[]string `json:"tags"`
}

// HandleUpdateReport edits report metadata. The stored file is
// immutable; replacing it means uploading a new report. Author or
// platform admin only — note an admin may edit a private report they
// could not read through the view endpoint.
func (h *Handler) HandleUpdateReport(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	var req updateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.WriteKind(w, httperr.Validation, "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	report, err := h.reportFromPath(ctx, r)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	if !visibility.CanMutate(visibility.Actor{ID: uid, Role: role}, report) {
		httperr.WriteKind(w, httperr.Forbidden, "Only the author can edit this report.")
		return
	}

	attrs := reportstore.UpdateAttrs{
		Title:        req.Title,
		Profession:   req.Profession,
		TrainingYear: req.TrainingYear,
		Tags:         req.Tags,
	}
	if req.Description != nil {
		clean := htmlsanitize.Strip(*req.Description)
		attrs.Description = &clean
	}

	// Visibility transitions re-run the same checks as creation: GROUP
	// needs a group the author belongs to, anything else drops the
	// group binding.
	if req.Visibility != nil {
		switch *req.Visibility {
		case models.VisibilityGroup:
			if req.GroupID == nil && report.GroupID == nil {
				httperr.WriteKind(w, httperr.Validation, "GROUP visibility requires a groupId.")
				return
			}
			gid := report.GroupID
			if req.GroupID != nil {
				parsed, err := primitive.ObjectIDFromHex(*req.GroupID)
				if err != nil {
					httperr.WriteKind(w, httperr.Validation, "Invalid groupId.")
					return
				}
				gid = &parsed
			}
			isMember, err := membershipstore.New(h.DB).IsMember(ctx, *gid, report.AuthorID)
			if err != nil {
				httperr.Write(w, err, h.Log)
				return
			}
			if !isMember {
				httperr.WriteKind(w, httperr.Forbidden, "The author is not a member of this group.")
				return
			}
			attrs.Visibility = req.Visibility
			attrs.GroupID = &gid
		case models.VisibilityPrivate, models.VisibilityPublic:
			attrs.Visibility = req.Visibility
			var cleared *primitive.ObjectID
			attrs.GroupID = &cleared
		default:
			httperr.WriteKind(w, httperr.Validation, "Visibility must be PRIVATE, GROUP, or PUBLIC.")
			return
		}
	}
	if req.TrainingYear != nil && (*req.TrainingYear < 1 || *req.TrainingYear > 3) {
		httperr.WriteKind(w, httperr.Validation, "Training year must be between 1 and 3.")
		return
	}

	updated, err := reportstore.New(h.DB).Update(ctx, report.ID, attrs)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, updated)
}
