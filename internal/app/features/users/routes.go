// internal/app/features/users/routes.go
package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register mounts the user routes on the API router. authed is the
// token-verification chain; admin additionally requires the admin role
// and guards the full listing and account deletion.
func Register(r chi.Router, h *Handler, authed []func(http.Handler) http.Handler, admin func(http.Handler) http.Handler) {
	r.Post("/users", h.Create)

	r.Group(func(r chi.Router) {
		r.Use(authed...)
		r.Get("/users/{email}", h.Get)
		r.Patch("/users/{email}", h.Update)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Get("/users", h.List)
			r.Delete("/users/{email}", h.Delete)
		})
	})
}
