// internal/app/features/groups/update.go
package groups

import (
	"context"
	"encoding/json"
	"net/http"

	groupstore "github.com/dalemusser/azubihub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/azubihub/internal/app/store/memberships"
	"github.com/dalemusser/azubihub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
)

type updateGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"isPublic"`
}

// HandleUpdateGroup changes group settings. Owner, group admins, and
// platform admins only.
func (h *Handler) HandleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	var req updateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.WriteKind(w, httperr.Validation, "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.groupFromPath(ctx, r)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	myRole, err := membershipstore.New(h.DB).Role(ctx, group.ID, uid)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	if !grouppolicy.CanManageGroup(uid, role, group, myRole) {
		httperr.WriteKind(w, httperr.Forbidden, "You do not have permission to manage this group.")
		return
	}

	if req.Description != nil {
		clean := htmlsanitize.Strip(*req.Description)
		req.Description = &clean
	}

	updated, err := groupstore.New(h.DB).Update(ctx, group.ID, groupstore.UpdateAttrs{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, updated)
}
