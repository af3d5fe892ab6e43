// internal/app/features/notify/routes.go
package notify

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter that serves the socket endpoint.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve) // this will be mounted under /ws
	return r
}
