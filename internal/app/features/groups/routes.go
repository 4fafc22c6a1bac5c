// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/azubihub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Browsing public groups works without a session, and so does the
	// invite preview: the token is the capability, and the holder may
	// want to see the group before signing in.
	r.Get("/", h.ServeGroupsList)
	r.Get("/invite/{token}", h.ServeInvitePreview)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/", h.HandleCreateGroup)
		pr.Get("/my", h.ServeMyGroups)

		pr.Post("/invite/{token}/accept", h.HandleAcceptInvite)

		pr.Get("/{id}", h.ServeGroupView)
		pr.Put("/{id}", h.HandleUpdateGroup)
		pr.Delete("/{id}", h.HandleDeleteGroup)

		pr.Post("/{id}/join", h.HandleJoinGroup)
		pr.Post("/{id}/leave", h.HandleLeaveGroup)
		pr.Get("/{id}/members", h.ServeMembers)
		pr.Delete("/{id}/members/{userID}", h.HandleRemoveMember)

		pr.Get("/{id}/invite", h.ServeInviteToken)
		pr.Post("/{id}/invite/rotate", h.HandleRotateInvite)

		pr.Post("/{id}/avatar", h.HandleUploadAvatar)
	})

	return r
}
