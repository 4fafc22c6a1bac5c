// internal/app/features/comments/routes.go
package comments

import (
	"github.com/dalemusser/azubihub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// ReportRoutes serves the thread under a report: listing and creating.
// Reading follows the report's visibility, which denies anonymous
// requests, so the whole subtree requires a session.
func ReportRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeCommentsList)
		pr.Post("/", h.HandleCreateComment)
	})

	return r
}

// CommentRoutes addresses a single comment for edit and delete.
func CommentRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Put("/{id}", h.HandleUpdateComment)
		pr.Delete("/{id}", h.HandleDeleteComment)
	})

	return r
}
