// internal/app/features/ratings/ratings.go
package ratings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	membershipstore "github.com/dalemusser/azubihub/internal/app/store/memberships"
	ratingstore "github.com/dalemusser/azubihub/internal/app/store/ratings"
	reportstore "github.com/dalemusser/azubihub/internal/app/store/reports"
	"github.com/dalemusser/azubihub/internal/app/policy/visibility"
	"github.com/dalemusser/azubihub/internal/app/system/authz"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/notify"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"github.com/dalemusser/azubihub/internal/domain/models"
)

type ratingsListResponse struct {
	AverageRating float64         `json:"averageRating"`
	RatingCount   int             `json:"ratingCount"`
	MyRating      *models.Rating  `json:"myRating,omitempty"`
	Ratings       []models.Rating `json:"ratings"`
}

// ServeRatingsList returns the report's rating aggregate, all ratings,
// and the requester's own rating if any.
func (h *Handler) ServeRatingsList(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actor := visibility.Actor{ID: uid, Role: role}
	report, err := h.reportForActor(ctx, r, actor, membershipstore.New(h.DB))
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	store := ratingstore.New(h.DB)
	rows, err := store.ListByReport(ctx, report.ID)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	if rows == nil {
		rows = []models.Rating{}
	}

	resp := ratingsListResponse{
		AverageRating: report.AverageRating,
		RatingCount:   report.RatingCount,
		Ratings:       rows,
	}
	if mine, err := store.GetByUser(ctx, report.ID, uid); err == nil {
		resp.MyRating = &mine
	}
	httperr.WriteJSON(w, http.StatusOK, resp)
}

type submitRatingRequest struct {
	Value int `json:"value"`
}

// HandleSubmitRating records a 1..5 rating. A first rating answers 201,
// overwriting a previous one answers 200; either way the report's
// aggregate is recomputed before the response is built and the author
// is notified. Rating your own report is allowed, it just produces no
// notification.
func (h *Handler) HandleSubmitRating(w http.ResponseWriter, r *http.Request) {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	var req submitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.WriteKind(w, httperr.Validation, "Invalid request body.")
		return
	}
	if req.Value < 1 || req.Value > 5 {
		httperr.WriteKind(w, httperr.Validation, "Rating must be between 1 and 5.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actor := visibility.Actor{ID: uid, Role: role}
	report, err := h.reportForActor(ctx, r, actor, membershipstore.New(h.DB))
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	rating, created, err := ratingstore.New(h.DB).Upsert(ctx, report.ID, uid, req.Value)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	// Every submit notifies, updates included; only self-ratings stay
	// silent.
	if report.AuthorID != uid {
		h.Notifier.Publish(notify.Event{
			UserID:  report.AuthorID,
			Type:    models.NotifyRating,
			Title:   "New rating",
			Message: fmt.Sprintf("%s rated your report %q with %d stars.", name, report.Title, req.Value),
			Link:    "/reports/" + report.ID.Hex(),
		})
	}

	// Re-read for the fresh aggregate.
	updated, err := reportstore.New(h.DB).GetByID(ctx, report.ID)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httperr.WriteJSON(w, status, map[string]any{
		"rating":        rating,
		"averageRating": updated.AverageRating,
		"ratingCount":   updated.RatingCount,
	})
}

// HandleDeleteRating withdraws the requester's rating and recomputes
// the aggregate.
func (h *Handler) HandleDeleteRating(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httperr.WriteKind(w, httperr.Unauthenticated, "Not authenticated.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actor := visibility.Actor{ID: uid, Role: role}
	report, err := h.reportForActor(ctx, r, actor, membershipstore.New(h.DB))
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	if err := ratingstore.New(h.DB).Delete(ctx, report.ID, uid); err != nil {
		if errors.Is(err, ratingstore.ErrNotFound) {
			httperr.WriteKind(w, httperr.NotFound, "You have not rated this report.")
			return
		}
		httperr.Write(w, err, h.Log)
		return
	}

	updated, err := reportstore.New(h.DB).GetByID(ctx, report.ID)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"averageRating": updated.AverageRating,
		"ratingCount":   updated.RatingCount,
	})
}
