// internal/app/features/ratings/routes.go
package ratings

import (
	"github.com/dalemusser/azubihub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeRatingsList)
		pr.Post("/", h.HandleSubmitRating)
		pr.Delete("/", h.HandleDeleteRating)
	})

	return r
}
