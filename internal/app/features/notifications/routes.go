// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/dalemusser/azubihub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeNotificationsList)
		pr.Post("/read-all", h.HandleMarkAllRead)
		pr.Post("/{id}/read", h.HandleMarkRead)
	})

	return r
}
