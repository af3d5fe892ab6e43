// Package borrowpolicy enforces borrow admission control: a per-user
// ceiling on concurrent borrows and no duplicate borrow of the same book.
package borrowpolicy

import (
	"context"
	"errors"

	borrowstore "github.com/dalemusser/shelfhub/internal/app/store/borrows"
	"github.com/dalemusser/shelfhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultLimit is the ceiling on concurrent borrows per user.
const DefaultLimit = 3

var (
	// ErrLimitExceeded means the user already holds the maximum number
	// of borrowed books. HTTP callers map this to 403.
	ErrLimitExceeded = errors.New("borrow limit exceeded")

	// ErrDuplicateBorrow means the user already holds this book.
	// HTTP callers map this to 400.
	ErrDuplicateBorrow = errors.New("book already borrowed by this user")

	// ErrMissingFields means the request lacked an email or book id.
	ErrMissingFields = errors.New("email and book id are required")
)

// Store is the slice of the borrow store the policy needs. Satisfied by
// *borrowstore.Store; tests substitute an in-memory fake.
type Store interface {
	CountByEmail(ctx context.Context, email string) (int64, error)
	Exists(ctx context.Context, email, bookID string) (bool, error)
	Insert(ctx context.Context, rec models.BorrowRecord) (models.BorrowRecord, error)
}

// Controller performs the admission check and the insert for new borrows.
type Controller struct {
	store Store
	limit int
}

// New returns a Controller with the given ceiling. limit <= 0 falls back
// to DefaultLimit.
func New(store Store, limit int) *Controller {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Controller{store: store, limit: limit}
}

// Limit returns the configured borrow ceiling.
func (c *Controller) Limit() int { return c.limit }

// TryBorrow runs the admission sequence for rec:
//
//  1. count existing records for the email; at or above the limit the
//     request fails with ErrLimitExceeded,
//  2. an existing (email, book_id) record fails with ErrDuplicateBorrow,
//  3. otherwise the record is inserted and its id returned.
//
// Nothing is written on failure. The count check is read-then-act: two
// racing requests for the same user can both pass it and overshoot the
// ceiling by one (soft limit). The duplicate check does not share that
// race; the unique (email, book_id) index turns a racing duplicate
// insert into ErrDuplicateBorrow.
func (c *Controller) TryBorrow(ctx context.Context, rec models.BorrowRecord) (primitive.ObjectID, error) {
	if rec.Email == "" || rec.BookID == "" {
		return primitive.NilObjectID, ErrMissingFields
	}

	count, err := c.store.CountByEmail(ctx, rec.Email)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if count >= int64(c.limit) {
		return primitive.NilObjectID, ErrLimitExceeded
	}

	exists, err := c.store.Exists(ctx, rec.Email, rec.BookID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if exists {
		return primitive.NilObjectID, ErrDuplicateBorrow
	}

	inserted, err := c.store.Insert(ctx, rec)
	if err != nil {
		if errors.Is(err, borrowstore.ErrDuplicate) {
			return primitive.NilObjectID, ErrDuplicateBorrow
		}
		return primitive.NilObjectID, err
	}
	return inserted.ID, nil
}
