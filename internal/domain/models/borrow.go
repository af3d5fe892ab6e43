// internal/domain/models/borrow.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BorrowRecord marks one active borrow of a book by a user.
//
// BookID is the hex string form of the book's ObjectID, kept as a string
// because API clients send it that way. Both Email and BookID are weak
// references; returning the book deletes the record.
type BorrowRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email      string             `bson:"email" json:"email"`
	BookID     string             `bson:"book_id" json:"book_id"`
	ReturnDate string             `bson:"return_date,omitempty" json:"return_date,omitempty"`

	BorrowedAt time.Time `bson:"borrowed_at" json:"borrowed_at"`
}
