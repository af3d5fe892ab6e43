package books

import (
	"context"
	"errors"
	"net/http"

	bookstore "github.com/dalemusser/shelfhub/internal/app/store/books"
	borrowstore "github.com/dalemusser/shelfhub/internal/app/store/borrows"
	"github.com/dalemusser/shelfhub/internal/app/system/jsonutil"
	"github.com/dalemusser/shelfhub/internal/app/system/timeouts"
	"github.com/dalemusser/shelfhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the book endpoints.
type Handler struct {
	Books    *bookstore.Store
	Borrows  *borrowstore.Store
	PageSize int
	TopLimit int
	Log      *zap.Logger
}

// NewHandler constructs a books Handler. pageSize is the default list
// page size; topLimit caps the top-rated and top-authors lists.
func NewHandler(db *mongo.Database, pageSize, topLimit int, logger *zap.Logger) *Handler {
	return &Handler{
		Books:    bookstore.New(db),
		Borrows:  borrowstore.New(db),
		PageSize: pageSize,
		TopLimit: topLimit,
		Log:      logger,
	}
}

// List handles GET /allBooks with optional category filter and
// page/limit pagination.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	category := query.Get(r, "category")
	page, limit := h.paging(r)

	books, total, err := h.Books.List(ctx, category, page, limit)
	if err != nil {
		h.Log.Error("failed to list books", zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	jsonutil.OK(w, pageResponse{
		Books:       books,
		TotalBooks:  total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
	})
}

// ListMine handles GET /myBooks/{email}: the books posted by one user,
// paginated.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	email := chi.URLParam(r, "email")
	page, limit := h.paging(r)

	books, total, err := h.Books.ListByAuthor(ctx, email, page, limit)
	if err != nil {
		h.Log.Error("failed to list user books", zap.String("email", email), zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	jsonutil.OK(w, pageResponse{
		Books:       books,
		TotalBooks:  total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
	})
}

// Get handles GET /allBooks/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.Error(w, http.StatusBadRequest, "Invalid book id")
		return
	}

	book, err := h.Books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.Error(w, http.StatusNotFound, "Book not found")
			return
		}
		h.Log.Error("failed to fetch book", zap.String("id", id.Hex()), zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	jsonutil.OK(w, book)
}

// TopRated handles GET /topRatingBooks.
func (h *Handler) TopRated(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	books, err := h.Books.TopRated(ctx, h.TopLimit)
	if err != nil {
		h.Log.Error("failed to fetch top rated books", zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	jsonutil.OK(w, books)
}

// TopAuthors handles GET /topUsersByBooks: the users who posted the most
// books.
func (h *Handler) TopAuthors(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Books.TopAuthors(ctx, h.TopLimit)
	if err != nil {
		h.Log.Error("failed to aggregate top authors", zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	jsonutil.OK(w, rows)
}

// Statistics handles GET /booksStatistics: the admin dashboard numbers.
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	stats, err := h.Books.Stats(ctx)
	if err != nil {
		h.Log.Error("failed to aggregate book statistics", zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	borrowed, err := h.Borrows.Count(ctx)
	if err != nil {
		h.Log.Error("failed to count borrowed books", zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	jsonutil.OK(w, statsResponse{
		TotalBooks:    stats.TotalBooks,
		UniqueTitles:  stats.UniqueTitles,
		TotalStock:    stats.TotalStock,
		TotalBorrowed: borrowed,
		ByCategory:    stats.ByCategory,
	})
}

// Create handles POST /addBooks.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var book models.Book
	if err := jsonutil.Decode(r, &book); err != nil {
		jsonutil.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if book.Title == "" || book.AuthorEmail == "" {
		jsonutil.Error(w, http.StatusBadRequest, "Title and author email are required")
		return
	}

	created, err := h.Books.Insert(ctx, book)
	if err != nil {
		h.Log.Error("failed to add book", zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Failed to add book")
		return
	}

	jsonutil.Created(w, created)
}

// Update handles PATCH /updateBook/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.Error(w, http.StatusBadRequest, "Invalid book id")
		return
	}

	var body updateBody
	if err := jsonutil.Decode(r, &body); err != nil {
		jsonutil.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	matched, err := h.Books.UpdateByID(ctx, id, bookstore.Update{
		Title:       body.Title,
		AuthorName:  body.AuthorName,
		Category:    body.Category,
		Rating:      body.Rating,
		Quantity:    body.Quantity,
		Description: body.Description,
		CoverURL:    body.CoverURL,
	})
	if err != nil {
		h.Log.Error("failed to update book", zap.String("id", id.Hex()), zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Failed to update book")
		return
	}
	if matched == 0 {
		jsonutil.Error(w, http.StatusNotFound, "Book not found")
		return
	}

	jsonutil.Message(w, "Book updated successfully")
}

// Delete handles DELETE /deleteBook/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.Error(w, http.StatusBadRequest, "Invalid book id")
		return
	}

	deleted, err := h.Books.DeleteByID(ctx, id)
	if err != nil {
		h.Log.Error("failed to delete book", zap.String("id", id.Hex()), zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Failed to delete book")
		return
	}
	if deleted == 0 {
		jsonutil.Error(w, http.StatusNotFound, "Book not found")
		return
	}

	jsonutil.Message(w, "Book deleted successfully")
}
