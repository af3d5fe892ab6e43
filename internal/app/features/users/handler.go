package users

import (
	"context"
	"errors"
	"net/http"

	bookstore "github.com/dalemusser/shelfhub/internal/app/store/books"
	userstore "github.com/dalemusser/shelfhub/internal/app/store/users"
	"github.com/dalemusser/shelfhub/internal/app/system/jsonutil"
	"github.com/dalemusser/shelfhub/internal/app/system/timeouts"
	"github.com/dalemusser/shelfhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the user account endpoints.
type Handler struct {
	Users *userstore.Store
	Books *bookstore.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Users: userstore.New(db),
		Books: bookstore.New(db),
		Log:   logger,
	}
}

// Create handles POST /users: registers a new account. Role defaults to
// "user" when absent.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var u models.User
	if err := jsonutil.Decode(r, &u); err != nil {
		jsonutil.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if u.Email == "" {
		jsonutil.Error(w, http.StatusBadRequest, "Email is required")
		return
	}
	if u.Role != "" && !models.IsValidRole(u.Role) {
		jsonutil.Error(w, http.StatusBadRequest, "Invalid role")
		return
	}

	created, err := h.Users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			jsonutil.Error(w, http.StatusConflict, "A user with this email already exists.")
			return
		}
		h.Log.Error("failed to create user", zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	jsonutil.Created(w, created)
}

// Get handles GET /users/{email}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	email := chi.URLParam(r, "email")

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("failed to fetch user", zap.String("email", email), zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	jsonutil.OK(w, u)
}

// Update handles PATCH /users/{email}: profile or role changes.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	email := chi.URLParam(r, "email")

	var body updateBody
	if err := jsonutil.Decode(r, &body); err != nil {
		jsonutil.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Role != nil && !models.IsValidRole(*body.Role) {
		jsonutil.Error(w, http.StatusBadRequest, "Invalid role")
		return
	}

	matched, err := h.Users.UpdateByEmail(ctx, email, userstore.Update{
		Name:     body.Name,
		PhotoURL: body.PhotoURL,
		Role:     body.Role,
	})
	if err != nil {
		h.Log.Error("failed to update user", zap.String("email", email), zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if matched == 0 {
		jsonutil.Error(w, http.StatusNotFound, "User not found")
		return
	}

	jsonutil.Message(w, "User updated successfully")
}

// Delete handles DELETE /users/{email}: removes the account and cascades
// to the books the user posted.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	email := chi.URLParam(r, "email")

	deleted, err := h.Users.DeleteByEmail(ctx, email)
	if err != nil {
		h.Log.Error("failed to delete user", zap.String("email", email), zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if deleted == 0 {
		jsonutil.Error(w, http.StatusNotFound, "User not found")
		return
	}

	if _, err := h.Books.DeleteByAuthor(ctx, email); err != nil {
		// The account is already gone; log the orphaned books and
		// report success for the account removal.
		h.Log.Error("failed to delete user's books", zap.String("email", email), zap.Error(err))
	}

	jsonutil.Message(w, "User deleted successfully")
}

// List handles GET /users: every account, admin only.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Users.List(ctx)
	if err != nil {
		h.Log.Error("failed to list users", zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	jsonutil.OK(w, list)
}
