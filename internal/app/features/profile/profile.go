// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	membershipstore "github.com/dalemusser/azubihub/internal/app/store/memberships"
	reportstore "github.com/dalemusser/azubihub/internal/app/store/reports"
	userstore "github.com/dalemusser/azubihub/internal/app/store/users"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"github.com/dalemusser/azubihub/internal/domain/models"
)

type profileResponse struct {
	User        models.User `json:"user"`
	ReportCount int64       `json:"reportCount"`
	GroupCount  int64       `json:"groupCount"`
}

// ServeProfile returns the signed-in user's record plus activity counts.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := userstore.New(h.DB).GetByID(ctx, uid)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	reportCount, err := reportstore.New(h.DB).CountByAuthor(ctx, uid)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	groupCount, err := membershipstore.New(h.DB).CountByUser(ctx, uid)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	httperr.WriteJSON(w, http.StatusOK, profileResponse{
		User:        user,
		ReportCount: reportCount,
		GroupCount:  groupCount,
	})
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// HandleUpdateProfile changes the user's display name and/or avatar URL.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.WriteKind(w, httperr.Validation, "Invalid request body.")
		return
	}
	if strings.TrimSpace(req.Name) == "" && req.Image == "" {
		httperr.WriteKind(w, httperr.Validation, "Nothing to update.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := userstore.New(h.DB).UpdateProfile(ctx, uid, req.Name, req.Image)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, user)
}
