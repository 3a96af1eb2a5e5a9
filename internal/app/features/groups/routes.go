// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/suitemate/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// LIST / DISCOVERY
		pr.Get("/", h.ServeGroupsList)
		pr.Get("/available-users", h.ServeAvailableUsers)

		// CREATE
		pr.Post("/", h.HandleCreateGroup)

		// VIEW
		pr.Get("/{id}", h.ServeGroupView)

		// MEMBERSHIP
		pr.Post("/{id}/leave", h.HandleLeaveGroup)
		pr.Post("/{id}/remove-member", h.HandleRemoveMember)
	})

	return r
}
