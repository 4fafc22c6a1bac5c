// internal/app/features/profile/avatar.go
package profile

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	userstore "github.com/dalemusser/azubihub/internal/app/store/users"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/storage"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleUploadAvatar accepts a multipart image upload, stores it, and
// points the user's profile at the new file.
func (h *Handler) HandleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
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

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := fmt.Sprintf("avatars/users/%s/%s%s", uid.Hex(), uuid.NewString(), ext)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Storage())
	defer cancel()

	if err := h.Files.Put(ctx, key, file, header.Size, &storage.PutOptions{ContentType: contentType}); err != nil {
		h.Log.Error("avatar upload failed", zap.Error(err))
		httperr.Write(w, err, h.Log)
		return
	}

	user, err := userstore.New(h.DB).UpdateProfile(ctx, uid, "", h.Files.URL(key))
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, user)
}
