// internal/app/features/reports/routes.go
package reports

import (
	"github.com/dalemusser/azubihub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Reads are gated too: anonymous visitors get 401, not the public
	// slice. PUBLIC means every signed-in user, not the open internet.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeReportsList)
		pr.Post("/", h.HandleCreateReport)
		pr.Get("/{id}", h.ServeReportView)
		pr.Put("/{id}", h.HandleUpdateReport)
		pr.Delete("/{id}", h.HandleDeleteReport)
		pr.Get("/{id}/download", h.HandleDownload)
	})

	return r
}
