// internal/app/features/groups/membership.go
package groups

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	membershipstore "github.com/dalemusser/azubihub/internal/app/store/memberships"
	userstore "github.com/dalemusser/azubihub/internal/app/store/users"
	"github.com/dalemusser/azubihub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/notify"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleJoinGroup joins the signed-in user to a public group. Private
// groups can only be entered through an invite link.
func (h *Handler) HandleJoinGroup(w http.ResponseWriter, r *http.Request) {
	_, name, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.groupFromPath(ctx, r)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	if !group.IsPublic {
		httperr.WriteKind(w, httperr.Forbidden, "This group is private; you need an invite link to join.")
		return
	}

	h.join(ctx, w, group, uid, name)
}

// join adds the membership row and notifies the owner. Shared by the
// public-join and invite-accept paths.
func (h *Handler) join(ctx context.Context, w http.ResponseWriter, group models.Group, uid primitive.ObjectID, name string) {
	m, err := membershipstore.New(h.DB).Add(ctx, group.ID, uid, models.GroupRoleMember)
	if err != nil {
		if errors.Is(err, membershipstore.ErrDuplicateMembership) {
			// The group id lets the caller redirect to the group they
			// already belong to.
			httperr.WriteJSON(w, http.StatusConflict, map[string]any{
				"error":   "You are already a member of this group.",
				"groupId": group.ID.Hex(),
			})
			return
		}
		httperr.Write(w, err, h.Log)
		return
	}

	if group.OwnerID != uid {
		h.Notifier.Publish(notify.Event{
			UserID:  group.OwnerID,
			Type:    models.NotifyGroupJoin,
			Title:   "New group member",
			Message: fmt.Sprintf("%s joined your group %q.", name, group.Name),
			Link:    "/groups/" + group.ID.Hex(),
		})
	}

	httperr.WriteJSON(w, http.StatusCreated, m)
}

// HandleLeaveGroup removes the signed-in user's own membership. The
// owner cannot leave; deleting the group is the only exit for them.
func (h *Handler) HandleLeaveGroup(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.groupFromPath(ctx, r)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	if !grouppolicy.CanLeaveGroup(uid, group) {
		httperr.WriteKind(w, httperr.Forbidden, "The group owner cannot leave; delete the group instead.")
		return
	}

	deleted, err := membershipstore.New(h.DB).Remove(ctx, group.ID, uid)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	if deleted == 0 {
		httperr.WriteKind(w, httperr.NotFound, "You are not a member of this group.")
		return
	}
	httperr.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

type memberResponse struct {
	models.GroupMember
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// ServeMembers lists the group's members with display names. Gated the
// same way as the group view.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
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

	rows, err := members.ListByGroup(ctx, group.ID)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	userIDs := make([]primitive.ObjectID, 0, len(rows))
	for _, m := range rows {
		userIDs = append(userIDs, m.UserID)
	}
	users, err := userstore.New(h.DB).GetMany(ctx, userIDs)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	out := make([]memberResponse, 0, len(rows))
	for _, m := range rows {
		u := users[m.UserID]
		out = append(out, memberResponse{GroupMember: m, Name: u.Name, Image: u.Image})
	}
	httperr.WriteJSON(w, http.StatusOK, out)
}

// HandleRemoveMember kicks a member out of the group. Managers only;
// the owner cannot be removed.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httperr.WriteKind(w, httperr.Validation, "Invalid user id.")
		return
	}

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
	if !grouppolicy.CanManageGroup(uid, role, group, myRole) {
		httperr.WriteKind(w, httperr.Forbidden, "You do not have permission to manage this group.")
		return
	}
	if targetID == group.OwnerID {
		httperr.WriteKind(w, httperr.Forbidden, "The group owner cannot be removed.")
		return
	}

	deleted, err := members.Remove(ctx, group.ID, targetID)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	if deleted == 0 {
		httperr.WriteKind(w, httperr.NotFound, "Membership not found.")
		return
	}
	httperr.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
