// internal/app/features/books/routes.go
package books

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register mounts the book routes on the API router. authed is the
// token-verification middleware chain applied to write routes and the
// per-user listing; public reads take no credential.
func Register(r chi.Router, h *Handler, authed ...func(http.Handler) http.Handler) {
	r.Get("/allBooks", h.List)
	r.Get("/allBooks/{id}", h.Get)
	r.Get("/booksStatistics", h.Statistics)
	r.Get("/topRatingBooks", h.TopRated)
	r.Get("/topUsersByBooks", h.TopAuthors)

	r.Group(func(r chi.Router) {
		r.Use(authed...)
		r.Get("/myBooks/{email}", h.ListMine)
		r.Post("/addBooks", h.Create)
		r.Patch("/updateBook/{id}", h.Update)
		r.Delete("/deleteBook/{id}", h.Delete)
	})
}
