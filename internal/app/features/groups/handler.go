// internal/app/features/groups/handler.go
package groups

import (
	"context"
	"errors"
	"net/http"

	groupstore "github.com/dalemusser/azubihub/internal/app/store/groups"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/notify"
	"github.com/dalemusser/azubihub/internal/app/system/storage"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature:
// lifecycle, membership, invite links, and avatars.
type Handler struct {
	DB       *mongo.Database
	Files    storage.Store
	Notifier *notify.Dispatcher
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, files storage.Store, notifier *notify.Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Files:    files,
		Notifier: notifier,
		Log:      logger,
	}
}

// groupFromPath loads the group addressed by the {id} URL parameter.
// A malformed or unknown id both come back as NotFound.
func (h *Handler) groupFromPath(ctx context.Context, r *http.Request) (models.Group, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.Group{}, httperr.New(httperr.NotFound, "Group not found.")
	}
	g, err := groupstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, httperr.New(httperr.NotFound, "Group not found.")
		}
		return models.Group{}, err
	}
	return g, nil
}
