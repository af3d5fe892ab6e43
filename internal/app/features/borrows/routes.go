// internal/app/features/borrows/routes.go
package borrows

import "github.com/go-chi/chi/v5"

// Register mounts the borrowed-books routes on the API router.
func Register(r chi.Router, h *Handler) {
	r.Get("/borrowedBooksInfo", h.List)
	r.Get("/borrowedBooks/{email}", h.ByEmail)
	r.Post("/addBorrowedBookInfo", h.Create)
	r.Delete("/deleteBorrowedBook/{id}", h.Delete)
}
