// internal/app/features/auth/logout.go
package auth

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/azubihub/internal/app/store/users"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleLogout clears the session. Safe to call when not signed in.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ServeMe returns the signed-in user's own record.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := userstore.New(h.DB).GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
			return
		}
		httperr.Write(w, err, h.Log)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, user)
}
