// internal/app/features/groups/delete.go
package groups

import (
	"context"
	"net/http"

	commentstore "github.com/dalemusser/azubihub/internal/app/store/comments"
	groupstore "github.com/dalemusser/azubihub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/azubihub/internal/app/store/memberships"
	ratingstore "github.com/dalemusser/azubihub/internal/app/store/ratings"
	reportstore "github.com/dalemusser/azubihub/internal/app/store/reports"
	"github.com/dalemusser/azubihub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDeleteGroup deletes a group and everything hanging off it:
// memberships, the group's reports with their comments, ratings, and
// stored files. Owner or platform admin only; group admins cannot
// destroy the group they help run.
//
// The database rows are authoritative. Blob deletion is best-effort;
// an unreachable object store must not wedge the group deletion.
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	group, err := h.groupFromPath(ctx, r)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	if !grouppolicy.CanDeleteGroup(uid, role, group) {
		httperr.WriteKind(w, httperr.Forbidden, "Only the group owner can delete the group.")
		return
	}

	reports := reportstore.New(h.DB)
	reportIDs, err := reports.IDsByGroup(ctx, group.ID)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	comments := commentstore.New(h.DB)
	ratings := ratingstore.New(h.DB)
	for _, rid := range reportIDs {
		if _, err := comments.DeleteByReport(ctx, rid); err != nil {
			httperr.Write(w, err, h.Log)
			return
		}
		if _, err := ratings.DeleteByReport(ctx, rid); err != nil {
			httperr.Write(w, err, h.Log)
			return
		}
	}

	fileURLs, err := reports.DeleteByGroup(ctx, group.ID)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	if _, err := membershipstore.New(h.DB).DeleteByGroup(ctx, group.ID); err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	if _, err := groupstore.New(h.DB).Delete(ctx, group.ID); err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	for _, u := range fileURLs {
		if err := h.Files.Delete(ctx, h.Files.KeyFromURL(u)); err != nil {
			h.Log.Warn("orphaned file after group delete",
				zap.String("group_id", group.ID.Hex()),
				zap.String("url", u),
				zap.Error(err))
		}
	}

	httperr.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
