// internal/app/features/notifications/notifications.go
package notifications

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	notificationstore "github.com/dalemusser/azubihub/internal/app/store/notifications"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeNotificationsList returns the user's notifications, newest
// first. ?unread=true narrows to unread; ?limit=N caps the result.
func (h *Handler) ServeNotificationsList(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var read *bool
	if r.URL.Query().Get("unread") == "true" {
		f := false
		read = &f
	}
	var limit int64
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			httperr.WriteKind(w, httperr.Validation, "Invalid limit.")
			return
		}
		limit = n
	}

	store := notificationstore.New(h.DB)
	rows, err := store.ListByUser(ctx, uid, read, limit)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	if rows == nil {
		rows = []models.Notification{}
	}
	unread, err := store.CountUnread(ctx, uid)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	httperr.WriteJSON(w, http.StatusOK, map[string]any{
		"notifications": rows,
		"unreadCount":   unread,
	})
}

// HandleMarkRead flips one notification to read. Only the recipient
// may do this; anyone else gets a 403 even if they guessed the id.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httperr.WriteKind(w, httperr.NotFound, "Notification not found.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := notificationstore.New(h.DB)
	n, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, notificationstore.ErrNotFound) {
			httperr.WriteKind(w, httperr.NotFound, "Notification not found.")
			return
		}
		httperr.Write(w, err, h.Log)
		return
	}
	if n.UserID != uid {
		httperr.WriteKind(w, httperr.Forbidden, "This notification belongs to another user.")
		return
	}

	if err := store.MarkRead(ctx, id); err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// HandleMarkAllRead flips the user's whole inbox to read.
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := notificationstore.New(h.DB).MarkAllRead(ctx, uid)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, map[string]any{"updated": updated})
}
