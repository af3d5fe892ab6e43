package borrows

import (
	"time"

	"github.com/dalemusser/shelfhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// borrowedView is a borrow record joined with its book document. Book is
// nil when the book has since been deleted.
type borrowedView struct {
	ID         primitive.ObjectID `json:"id"`
	Email      string             `json:"email"`
	BookID     string             `json:"book_id"`
	ReturnDate string             `json:"return_date,omitempty"`
	BorrowedAt time.Time          `json:"borrowed_at"`
	Book       *models.Book       `json:"book,omitempty"`
}

type insertResponse struct {
	InsertedID primitive.ObjectID `json:"insertedId"`
}
