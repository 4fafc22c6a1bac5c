// internal/app/features/groups/invite.go
package groups

import (
	"context"
	"errors"
	"net/http"

	groupstore "github.com/dalemusser/azubihub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/azubihub/internal/app/store/memberships"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeInviteToken returns the group's invite token, creating one if
// the group has never issued an invite link. Owner only — the token is
// a capability, and anyone holding it can join a private group, so not
// even group admins may read it.
func (h *Handler) ServeInviteToken(w http.ResponseWriter, r *http.Request) {
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
	if group.OwnerID != uid {
		httperr.WriteKind(w, httperr.Forbidden, "Only the group owner can manage invite links.")
		return
	}

	token, err := groupstore.New(h.DB).EnsureInviteToken(ctx, group.ID)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, map[string]any{"inviteToken": token})
}

// HandleRotateInvite replaces the invite token. Owner only; the
// previous link stops working the moment this returns.
func (h *Handler) HandleRotateInvite(w http.ResponseWriter, r *http.Request) {
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
	if group.OwnerID != uid {
		httperr.WriteKind(w, httperr.Forbidden, "Only the group owner can manage invite links.")
		return
	}

	token, err := groupstore.New(h.DB).RotateInviteToken(ctx, group.ID)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, map[string]any{"inviteToken": token})
}

type invitePreviewResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	IsPublic    bool   `json:"isPublic"`
	MemberCount int64  `json:"memberCount"`
	IsMember    bool   `json:"isMember"`
}

// ServeInvitePreview resolves an invite token into a group preview, so
// the holder can see what they are about to join. The token itself is
// the authorization; no session or membership is required.
func (h *Handler) ServeInvitePreview(w http.ResponseWriter, r *http.Request) {
	_, _, uid, signedIn := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := groupstore.New(h.DB).GetByInviteToken(ctx, chi.URLParam(r, "token"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httperr.WriteKind(w, httperr.NotFound, "Invalid or expired invite link.")
			return
		}
		httperr.Write(w, err, h.Log)
		return
	}

	members := membershipstore.New(h.DB)
	memberCount, err := members.CountByGroup(ctx, group.ID)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	isMember := false
	if signedIn {
		isMember, err = members.IsMember(ctx, group.ID, uid)
		if err != nil {
			httperr.Write(w, err, h.Log)
			return
		}
	}

	httperr.WriteJSON(w, http.StatusOK, invitePreviewResponse{
		ID:          group.ID.Hex(),
		Name:        group.Name,
		Description: group.Description,
		Avatar:      group.Avatar,
		IsPublic:    group.IsPublic,
		MemberCount: memberCount,
		IsMember:    isMember,
	})
}

// HandleAcceptInvite joins the signed-in user to the group behind the
// token, public or private.
func (h *Handler) HandleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	_, name, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := groupstore.New(h.DB).GetByInviteToken(ctx, chi.URLParam(r, "token"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httperr.WriteKind(w, httperr.NotFound, "Invalid or expired invite link.")
			return
		}
		httperr.Write(w, err, h.Log)
		return
	}

	h.join(ctx, w, group, uid, name)
}
