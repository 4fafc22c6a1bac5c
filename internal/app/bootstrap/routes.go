// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authfeature "github.com/dalemusser/azubihub/internal/app/features/auth"
	commentsfeature "github.com/dalemusser/azubihub/internal/app/features/comments"
	groupsfeature "github.com/dalemusser/azubihub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/azubihub/internal/app/features/health"
	notificationsfeature "github.com/dalemusser/azubihub/internal/app/features/notifications"
	profilefeature "github.com/dalemusser/azubihub/internal/app/features/profile"
	ratingsfeature "github.com/dalemusser/azubihub/internal/app/features/ratings"
	reportsfeature "github.com/dalemusser/azubihub/internal/app/features/reports"
	"github.com/dalemusser/azubihub/internal/app/system/auth"
	"github.com/dalemusser/azubihub/internal/app/system/storage"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. The whole API is JSON under
// /api; the only exceptions are /health and, with local storage, the
// /files file server for uploaded documents.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged
	// in, making the current user available via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// With local storage, serve uploaded files directly. S3 setups
	// hand out presigned URLs instead and skip this mount.
	if local, ok := deps.Files.(*storage.Local); ok {
		prefix := appCfg.StorageLocalURL
		r.Handle(prefix+"/*", fileserver.Handler(prefix, local.Root()))
	}

	r.Route("/api", func(api chi.Router) {
		authHandler := authfeature.NewHandler(db, sessionMgr, logger)
		api.Mount("/auth", authfeature.Routes(authHandler, sessionMgr))

		profileHandler := profilefeature.NewHandler(db, deps.Files, logger)
		api.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

		groupsHandler := groupsfeature.NewHandler(db, deps.Files, deps.Notifier, logger)
		api.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr))

		reportsHandler := reportsfeature.NewHandler(db, deps.Files, logger)
		api.Mount("/reports", reportsfeature.Routes(reportsHandler, sessionMgr))

		// Comments and ratings live under /api/reports/{id}/… for
		// listing and creation; mutation of a single comment is
		// addressed by comment id.
		commentsHandler := commentsfeature.NewHandler(db, deps.Notifier, logger)
		api.Mount("/reports/{reportID}/comments", commentsfeature.ReportRoutes(commentsHandler, sessionMgr))
		api.Mount("/comments", commentsfeature.CommentRoutes(commentsHandler, sessionMgr))

		ratingsHandler := ratingsfeature.NewHandler(db, deps.Notifier, logger)
		api.Mount("/reports/{reportID}/ratings", ratingsfeature.Routes(ratingsHandler, sessionMgr))

		notificationsHandler := notificationsfeature.NewHandler(db, logger)
		api.Mount("/notifications", notificationsfeature.Routes(notificationsHandler, sessionMgr))
	})

	return r, nil
}
