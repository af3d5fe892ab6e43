// internal/domain/models/book.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book is a lendable title posted by a user.
//
// AuthorEmail is a weak reference to the posting user's email; it is a
// lookup key, not an ownership pointer. Deleting a user explicitly
// deletes that user's books by this key (see userstore / users feature).
type Book struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	AuthorName  string             `bson:"author_name,omitempty" json:"author_name,omitempty"`
	AuthorEmail string             `bson:"author_email" json:"author_email"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Rating      float64            `bson:"rating" json:"rating"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CoverURL    string             `bson:"cover_url,omitempty" json:"cover_url,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
