// internal/app/features/notify/routes.go
package notify

import (
	"github.com/dalemusser/suitemate/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/ws", h.ServeWS)
	})

	return r
}
