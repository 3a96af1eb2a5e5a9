// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/suitemate/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes serves the signed-in user's own profile.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeProfile)
		pr.Put("/", h.HandleUpdateProfile)
	})
	return r
}

// UserRoutes serves other users' public records.
func UserRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/{id}", h.ServeUser)
	})
	return r
}
