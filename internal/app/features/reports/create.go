// internal/app/features/reports/create.go
package reports

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	membershipstore "github.com/dalemusser/azubihub/internal/app/store/memberships"
	reportstore "github.com/dalemusser/azubihub/internal/app/store/reports"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/storage"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleCreateReport accepts a multipart upload: the document under
// "file" plus metadata fields. GROUP visibility requires a groupId the
// author actually belongs to; other visibilities must not carry one.
func (h *Handler) HandleCreateReport(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	if err := r.ParseMultipartForm(storage.MaxDocumentSize); err != nil {
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
	fileType, err := storage.ValidateDocument(contentType, header.Size)
	if err != nil {
		httperr.WriteKind(w, httperr.Validation, err.Error())
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		httperr.WriteKind(w, httperr.Validation, "Title is required.")
		return
	}
	visibility := r.FormValue("visibility")
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}
	switch visibility {
	case models.VisibilityPrivate, models.VisibilityGroup, models.VisibilityPublic:
	default:
		httperr.WriteKind(w, httperr.Validation, "Visibility must be PRIVATE, GROUP, or PUBLIC.")
		return
	}

	trainingYear := 0
	if v := r.FormValue("trainingYear"); v != "" {
		trainingYear, err = strconv.Atoi(v)
		if err != nil || trainingYear < 1 || trainingYear > 3 {
			httperr.WriteKind(w, httperr.Validation, "Training year must be between 1 and 3.")
			return
		}
	}

	var tags []string
	for _, t := range strings.Split(r.FormValue("tags"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Storage())
	defer cancel()

	var groupID *primitive.ObjectID
	if visibility == models.VisibilityGroup {
		gid, err := primitive.ObjectIDFromHex(r.FormValue("groupId"))
		if err != nil {
			httperr.WriteKind(w, httperr.Validation, "GROUP visibility requires a valid groupId.")
			return
		}
		isMember, err := membershipstore.New(h.DB).IsMember(ctx, gid, uid)
		if err != nil {
			httperr.Write(w, err, h.Log)
			return
		}
		if !isMember {
			httperr.WriteKind(w, httperr.Forbidden, "You are not a member of this group.")
			return
		}
		groupID = &gid
	} else if r.FormValue("groupId") != "" {
		httperr.WriteKind(w, httperr.Validation, "groupId is only allowed with GROUP visibility.")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := fmt.Sprintf("reports/%s/%s%s", uid.Hex(), uuid.NewString(), ext)
	if err := h.Files.Put(ctx, key, file, header.Size, &storage.PutOptions{ContentType: contentType}); err != nil {
		h.Log.Error("report upload failed", zap.Error(err))
		httperr.Write(w, err, h.Log)
		return
	}

	report, err := reportstore.New(h.DB).Create(ctx, models.Report{
		Title:        title,
		Description:  htmlsanitize.Strip(r.FormValue("description")),
		FileURL:      h.Files.URL(key),
		FileName:     header.Filename,
		FileSize:     header.Size,
		FileType:     fileType,
		Visibility:   visibility,
		GroupID:      groupID,
		AuthorID:     uid,
		Profession:   strings.TrimSpace(r.FormValue("profession")),
		TrainingYear: trainingYear,
		Tags:         tags,
	})
	if err != nil {
		// The blob is already stored; try not to leak it.
		if derr := h.Files.Delete(ctx, key); derr != nil {
			h.Log.Warn("orphaned upload after failed insert", zap.String("key", key), zap.Error(derr))
		}
		httperr.Write(w, err, h.Log)
		return
	}

	httperr.WriteJSON(w, http.StatusCreated, report)
}
