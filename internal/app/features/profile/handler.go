// internal/app/features/profile/handler.go
package profile

import (
	"github.com/dalemusser/azubihub/internal/app/system/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the profile feature.
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
