// internal/app/features/groups/avatar.go
package groups

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	groupstore "github.com/dalemusser/azubihub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/azubihub/internal/app/store/memberships"
	"github.com/dalemusser/azubihub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/storage"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleUploadAvatar sets the group's avatar image. Managers only.
func (h *Handler) HandleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	if err := r.ParseMultipartForm(storage.MaxImageSize); err != nil {
		httperr.WriteKind(w, httperr.Validation, "Invalid multipart form.")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httperr.WriteKind(w, httperr.Validation, "No file provided.")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := storage.ValidateImage(contentType, header.Size); err != nil {
		httperr.WriteKind(w, httperr.Validation, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Storage())
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

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := fmt.Sprintf("avatars/groups/%s/%s%s", group.ID.Hex(), uuid.NewString(), ext)

	if err := h.Files.Put(ctx, key, file, header.Size, &storage.PutOptions{ContentType: contentType}); err != nil {
		h.Log.Error("group avatar upload failed", zap.Error(err))
		httperr.Write(w, err, h.Log)
		return
	}

	avatarURL := h.Files.URL(key)
	updated, err := groupstore.New(h.DB).Update(ctx, group.ID, groupstore.UpdateAttrs{Avatar: &avatarURL})
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, updated)
}
