// internal/app/features/groups/create.go
package groups

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	groupstore "github.com/dalemusser/azubihub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/azubihub/internal/app/store/memberships"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"isPublic"`
}

// HandleCreateGroup creates a group. The creator becomes the owner and
// receives an ADMIN membership row in the same breath; a group without
// its owner as member would be invisible to its own creator's feeds.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.WriteKind(w, httperr.Validation, "Invalid request body.")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httperr.WriteKind(w, httperr.Validation, "Group name is required.")
		return
	}
	if len(req.Name) > 100 {
		httperr.WriteKind(w, httperr.Validation, "Group name is too long (max. 100 characters).")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := createWithOwner(ctx, h.DB, models.Group{
		Name:        req.Name,
		Description: htmlsanitize.Strip(req.Description),
		IsPublic:    req.IsPublic,
		OwnerID:     uid,
	}, models.GroupRoleAdmin)
	if err != nil {
		h.Log.Error("group create failed", zap.Error(err))
		httperr.Write(w, err, h.Log)
		return
	}

	httperr.WriteJSON(w, http.StatusCreated, group)
}

// createWithOwner inserts the group and the owner's membership row. If
// the membership insert fails the group document is deleted again, so
// no group ever exists without its owner as a member.
func createWithOwner(ctx context.Context, db *mongo.Database, g models.Group, ownerRole string) (models.Group, error) {
	group, err := groupstore.New(db).Create(ctx, g)
	if err != nil {
		return models.Group{}, err
	}
	if _, err := membershipstore.New(db).Add(ctx, group.ID, g.OwnerID, ownerRole); err != nil {
		if _, derr := groupstore.New(db).Delete(ctx, group.ID); derr != nil {
			return models.Group{}, errors.Join(err, derr)
		}
		return models.Group{}, err
	}
	return group, nil
}
