// internal/app/features/groups/view.go
package groups

import (
	"context"
	"net/http"

	membershipstore "github.com/dalemusser/azubihub/internal/app/store/memberships"
	reportstore "github.com/dalemusser/azubihub/internal/app/store/reports"
	"github.com/dalemusser/azubihub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"github.com/dalemusser/azubihub/internal/domain/models"
)

type groupViewResponse struct {
	models.Group
	MemberCount int64  `json:"memberCount"`
	ReportCount int64  `json:"reportCount"`
	MyRole      string `json:"myRole,omitempty"` // "ADMIN" | "MEMBER" | ""
	IsOwner     bool   `json:"isOwner"`
}

// ServeGroupView returns a group's detail. Private groups are served
// only to members, the owner, and platform admins; everyone else gets
// a 404 so the group's existence is not confirmed.
func (h *Handler) ServeGroupView(w http.ResponseWriter, r *http.Request) {
	role, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.groupFromPath(ctx, r)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	members := membershipstore.New(h.DB)
	myRole, err := members.Role(ctx, group.ID, uid)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	if !grouppolicy.CanViewGroup(uid, role, group, myRole != "") {
		httperr.WriteKind(w, httperr.NotFound, "Group not found.")
		return
	}

	memberCount, err := members.CountByGroup(ctx, group.ID)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	reportCount, err := reportstore.New(h.DB).CountByGroup(ctx, group.ID)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	httperr.WriteJSON(w, http.StatusOK, groupViewResponse{
		Group:       group,
		MemberCount: memberCount,
		ReportCount: reportCount,
		MyRole:      myRole,
		IsOwner:     group.OwnerID == uid,
	})
}
