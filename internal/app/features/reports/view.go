// internal/app/features/reports/view.go
package reports

import (
	"context"
	"net/http"

	membershipstore "github.com/dalemusser/azubihub/internal/app/store/memberships"
	userstore "github.com/dalemusser/azubihub/internal/app/store/users"
	"github.com/dalemusser/azubihub/internal/app/policy/visibility"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type reportViewResponse struct {
	models.Report
	AuthorName  string `json:"authorName"`
	AuthorImage string `json:"authorImage,omitempty"`
}

// ServeReportView returns a single report's metadata. A report the
// requester may not see is indistinguishable from one that does not
// exist.
func (h *Handler) ServeReportView(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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

	users, err := userstore.New(h.DB).GetMany(ctx, []primitive.ObjectID{report.AuthorID})
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	author := users[report.AuthorID]

	httperr.WriteJSON(w, http.StatusOK, reportViewResponse{
		Report:      report,
		AuthorName:  author.Name,
		AuthorImage: author.Image,
	})
}
