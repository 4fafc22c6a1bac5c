// internal/app/features/groups/list.go
package groups

import (
	"context"
	"net/http"

	groupstore "github.com/dalemusser/azubihub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/azubihub/internal/app/store/memberships"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// ServeGroupsList lists public groups, optionally narrowed by ?q=.
// Private groups never appear here, whoever asks.
func (h *Handler) ServeGroupsList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := groupstore.New(h.DB).List(ctx, groupstore.ListFilter{
		PublicOnly: true,
		Search:     r.URL.Query().Get("q"),
	})
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	if groups == nil {
		groups = []models.Group{}
	}
	httperr.WriteJSON(w, http.StatusOK, groups)
}

// ServeMyGroups lists every group the signed-in user belongs to,
// public or private.
func (h *Handler) ServeMyGroups(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ids, err := membershipstore.New(h.DB).GroupIDsByUser(ctx, uid)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	groups := []models.Group{}
	if len(ids) > 0 {
		cur, err := h.DB.Collection("groups").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			httperr.Write(w, err, h.Log)
			return
		}
		defer cur.Close(ctx)
		if err := cur.All(ctx, &groups); err != nil {
			httperr.Write(w, err, h.Log)
			return
		}
	}
	httperr.WriteJSON(w, http.StatusOK, groups)
}
