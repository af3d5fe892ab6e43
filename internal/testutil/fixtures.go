package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/shelfhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given email and role.
func (f *Fixtures) CreateUser(ctx context.Context, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Name:      "Test User",
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin creates a test user with the admin role.
func (f *Fixtures) CreateAdmin(ctx context.Context, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, email, models.RoleAdmin)
}

// CreateBook creates a test book posted by authorEmail.
func (f *Fixtures) CreateBook(ctx context.Context, title, category, authorEmail string, rating float64, quantity int) models.Book {
	f.t.Helper()

	now := time.Now().UTC()
	book := models.Book{
		ID:          primitive.NewObjectID(),
		Title:       title,
		AuthorName:  "Test Author",
		AuthorEmail: authorEmail,
		Category:    category,
		Rating:      rating,
		Quantity:    quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("books").InsertOne(ctx, book); err != nil {
		f.t.Fatalf("failed to create test book: %v", err)
	}
	return book
}

// CreateBorrow creates a test borrow record for (email, bookID).
func (f *Fixtures) CreateBorrow(ctx context.Context, email, bookID string) models.BorrowRecord {
	f.t.Helper()

	rec := models.BorrowRecord{
		ID:         primitive.NewObjectID(),
		Email:      email,
		BookID:     bookID,
		BorrowedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("borrowed_books").InsertOne(ctx, rec); err != nil {
		f.t.Fatalf("failed to create test borrow record: %v", err)
	}
	return rec
}
