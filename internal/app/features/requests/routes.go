// internal/app/features/requests/routes.go
package requests

import (
	"github.com/dalemusser/suitemate/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /requests requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// CREATE
		pr.Post("/join", h.HandleRequestToJoin)
		pr.Post("/invite", h.HandleInvite)

		// RESOLVE
		pr.Post("/{id}/accept", h.HandleAccept)
		pr.Post("/{id}/decline", h.HandleDecline)
		pr.Post("/{id}/seen", h.HandleMarkSeen)

		// LIST
		pr.Get("/incoming", h.ServeIncoming)
		pr.Get("/outgoing", h.ServeOutgoing)
		pr.Get("/unseen-count", h.ServeUnseenCount)
	})

	return r
}
