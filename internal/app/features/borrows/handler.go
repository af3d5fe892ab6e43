package borrows

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/shelfhub/internal/app/policy/borrowpolicy"
	bookstore "github.com/dalemusser/shelfhub/internal/app/store/books"
	borrowstore "github.com/dalemusser/shelfhub/internal/app/store/borrows"
	"github.com/dalemusser/shelfhub/internal/app/system/jsonutil"
	"github.com/dalemusser/shelfhub/internal/app/system/timeouts"
	"github.com/dalemusser/shelfhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the borrowed-books endpoints. All writes go through the
// admission policy so the per-user ceiling and the no-duplicate rule hold.
type Handler struct {
	Borrows *borrowstore.Store
	Books   *bookstore.Store
	Policy  *borrowpolicy.Controller
	Log     *zap.Logger
}

// NewHandler constructs a borrows Handler. limit is the per-user
// concurrent borrow ceiling; <= 0 uses the policy default.
func NewHandler(db *mongo.Database, limit int, logger *zap.Logger) *Handler {
	store := borrowstore.New(db)
	return &Handler{
		Borrows: store,
		Books:   bookstore.New(db),
		Policy:  borrowpolicy.New(store, limit),
		Log:     logger,
	}
}

// List handles GET /borrowedBooksInfo: every active borrow record.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	recs, err := h.Borrows.List(ctx)
	if err != nil {
		h.Log.Error("failed to list borrow records", zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	jsonutil.OK(w, recs)
}

// ByEmail handles GET /borrowedBooks/{email}: one user's borrow records
// merged with the matching book documents.
func (h *Handler) ByEmail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	email := chi.URLParam(r, "email")

	recs, err := h.Borrows.ListByEmail(ctx, email)
	if err != nil {
		h.Log.Error("failed to list borrow records", zap.String("email", email), zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	views, err := h.merge(ctx, recs)
	if err != nil {
		h.Log.Error("failed to load borrowed book documents", zap.String("email", email), zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	jsonutil.OK(w, views)
}

// merge pairs each borrow record with its book document. Records whose
// book was deleted keep a nil Book.
func (h *Handler) merge(ctx context.Context, recs []models.BorrowRecord) ([]borrowedView, error) {
	ids := make([]primitive.ObjectID, 0, len(recs))
	for _, rec := range recs {
		id, err := primitive.ObjectIDFromHex(rec.BookID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	books, err := h.Books.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Book, len(books))
	for _, b := range books {
		byID[b.ID.Hex()] = b
	}

	views := make([]borrowedView, 0, len(recs))
	for _, rec := range recs {
		v := borrowedView{
			ID:         rec.ID,
			Email:      rec.Email,
			BookID:     rec.BookID,
			ReturnDate: rec.ReturnDate,
			BorrowedAt: rec.BorrowedAt,
		}
		if b, ok := byID[rec.BookID]; ok {
			book := b
			v.Book = &book
		}
		views = append(views, v)
	}
	return views, nil
}

// Create handles POST /addBorrowedBookInfo: a new borrow, subject to the
// admission policy.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var rec models.BorrowRecord
	if err := jsonutil.Decode(r, &rec); err != nil {
		jsonutil.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.Policy.TryBorrow(ctx, rec)
	switch {
	case err == nil:
		jsonutil.OK(w, insertResponse{InsertedID: id})
	case errors.Is(err, borrowpolicy.ErrMissingFields):
		jsonutil.Error(w, http.StatusBadRequest, "Email and book id are required")
	case errors.Is(err, borrowpolicy.ErrLimitExceeded):
		jsonutil.Error(w, http.StatusForbidden,
			fmt.Sprintf("You cannot borrow more than %d books at a time.", h.Policy.Limit()))
	case errors.Is(err, borrowpolicy.ErrDuplicateBorrow):
		jsonutil.Error(w, http.StatusBadRequest, "You have already borrowed this book.")
	default:
		h.Log.Error("failed to add borrow record", zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Server error")
	}
}

// Delete handles DELETE /deleteBorrowedBook/{id}: a return, freeing one
// slot against the borrow ceiling.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.Error(w, http.StatusBadRequest, "Invalid record id")
		return
	}

	deleted, err := h.Borrows.DeleteByID(ctx, id)
	if err != nil {
		h.Log.Error("failed to delete borrow record", zap.String("id", id.Hex()), zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Server error")
		return
	}
	if deleted == 0 {
		jsonutil.Error(w, http.StatusNotFound, "Borrow record not found")
		return
	}

	jsonutil.Message(w, "Book returned successfully")
}
