// internal/app/features/reports/download.go
package reports

import (
	"context"
	"fmt"
	"net/http"
	"time"

	membershipstore "github.com/dalemusser/azubihub/internal/app/store/memberships"
	reportstore "github.com/dalemusser/azubihub/internal/app/store/reports"
	"github.com/dalemusser/azubihub/internal/app/policy/visibility"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/storage"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDownload hands out a time-limited download URL for the report
// file and bumps the download counter. Access follows the same
// visibility decision as viewing the report.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Storage())
	defer cancel()

	report, err := h.reportFromPath(ctx, r)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	actor := visibility.Actor{ID: uid, Role: role}
	allowed, err := visibility.CanViewResolved(ctx, membershipstore.New(h.DB), actor, report)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	if !allowed {
		httperr.WriteKind(w, httperr.NotFound, "Report not found.")
		return
	}

	url, err := h.Files.PresignedURL(ctx, h.Files.KeyFromURL(report.FileURL), &storage.PresignOptions{
		Expires:            1 * time.Hour,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", report.FileName),
	})
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	// Counter failures don't block the download.
	if err := reportstore.New(h.DB).IncrementDownloadCount(ctx, report.ID); err != nil {
		h.Log.Warn("download counter update failed",
			zap.String("report_id", report.ID.Hex()),
			zap.Error(err))
	}

	httperr.WriteJSON(w, http.StatusOK, map[string]any{
		"url":      url,
		"fileName": report.FileName,
	})
}
