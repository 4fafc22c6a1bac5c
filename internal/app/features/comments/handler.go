// internal/app/features/comments/handler.go
package comments

import (
	"context"
	"errors"
	"net/http"

	reportstore "github.com/dalemusser/azubihub/internal/app/store/reports"
	"github.com/dalemusser/azubihub/internal/app/policy/visibility"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/notify"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the comments feature.
type Handler struct {
	DB       *mongo.Database
	Notifier *notify.Dispatcher
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, notifier *notify.Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Notifier: notifier,
		Log:      logger,
	}
}

// reportForActor loads the report addressed by {reportID} and applies
// the visibility decision. Commenting rights are exactly viewing
// rights; denial is indistinguishable from absence.
func (h *Handler) reportForActor(ctx context.Context, r *http.Request, actor visibility.Actor, members visibility.MembershipChecker) (models.Report, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "reportID"))
	if err != nil {
		return models.Report{}, httperr.New(httperr.NotFound, "Report not found.")
	}
	report, err := reportstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reportstore.ErrNotFound) {
			return models.Report{}, httperr.New(httperr.NotFound, "Report not found.")
		}
		return models.Report{}, err
	}
	allowed, err := visibility.CanViewResolved(ctx, members, actor, report)
	if err != nil {
		return models.Report{}, err
	}
	if !allowed {
		return models.Report{}, httperr.New(httperr.NotFound, "Report not found.")
	}
	return report, nil
}
