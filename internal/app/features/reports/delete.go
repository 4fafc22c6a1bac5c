// internal/app/features/reports/delete.go
package reports

import (
	"context"
	"net/http"

	commentstore "github.com/dalemusser/azubihub/internal/app/store/comments"
	ratingstore "github.com/dalemusser/azubihub/internal/app/store/ratings"
	reportstore "github.com/dalemusser/azubihub/internal/app/store/reports"
	"github.com/dalemusser/azubihub/internal/app/policy/visibility"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDeleteReport removes a report, its comments, its ratings, and
// (best-effort) the stored file. Author or platform admin only.
func (h *Handler) HandleDeleteReport(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	report, err := h.reportFromPath(ctx, r)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	if !visibility.CanMutate(visibility.Actor{ID: uid, Role: role}, report) {
		httperr.WriteKind(w, httperr.Forbidden, "Only the author can delete this report.")
		return
	}

	if _, err := commentstore.New(h.DB).DeleteByReport(ctx, report.ID); err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	if _, err := ratingstore.New(h.DB).DeleteByReport(ctx, report.ID); err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	if _, err := reportstore.New(h.DB).Delete(ctx, report.ID); err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	if report.FileURL != "" {
		if err := h.Files.Delete(ctx, h.Files.KeyFromURL(report.FileURL)); err != nil {
			h.Log.Warn("orphaned file after report delete",
				zap.String("report_id", report.ID.Hex()),
				zap.Error(err))
		}
	}

	httperr.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
