// internal/app/features/auth/handler.go
package auth

import (
	systemauth "github.com/dalemusser/azubihub/internal/app/system/auth"
	"github.com/dalemusser/azubihub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the auth feature
// (register, login, logout, current user).
type Handler struct {
	DB       *mongo.Database
	Sessions *systemauth.SessionManager
	Limits   *ratelimit.LoginLimiter
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, sessions *systemauth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Sessions: sessions,
		Limits:   ratelimit.NewLoginLimiter(),
		Log:      logger,
	}
}
