// internal/app/features/reports/handler.go
package reports

import (
	"context"
	"errors"
	"net/http"

	reportstore "github.com/dalemusser/azubihub/internal/app/store/reports"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/storage"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the reports feature:
// upload, listing, metadata, and download.
type Handler struct {
	DB    *mongo.Database
	Files storage.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, files storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		DB:    db,
		Files: files,
		Log:   logger,
	}
}

// reportFromPath loads the report addressed by the {id} URL parameter.
// A malformed or unknown id both come back as NotFound.
func (h *Handler) reportFromPath(ctx context.Context, r *http.Request) (models.Report, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.Report{}, httperr.New(httperr.NotFound, "Report not found.")
	}
	rep, err := reportstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reportstore.ErrNotFound) || errors.Is(err, mongo.ErrNoDocuments) {
			return models.Report{}, httperr.New(httperr.NotFound, "Report not found.")
		}
		return models.Report{}, err
	}
	return rep, nil
}
