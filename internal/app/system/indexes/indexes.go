// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent
(CreateMany is a no-op for indexes that already exist with the same
keys). Errors are aggregated so any problem is visible and startup can
fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureBooks(ctx, db); err != nil {
		problems = append(problems, "books: "+err.Error())
	}
	if err := ensureBorrowedBooks(ctx, db); err != nil {
		problems = append(problems, "borrowed_books: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// ensureUsers: unique email — the identity key and the duplicate-user guard.
func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
	})
	return err
}

// ensureBooks: category filter, rating sort for the top list, and the
// author_email key used by per-user listing and cascade deletion.
func ensureBooks(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("books").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category"),
		},
		{
			Keys:    bson.D{{Key: "rating", Value: -1}},
			Options: options.Index().SetName("rating_desc"),
		},
		{
			Keys:    bson.D{{Key: "author_email", Value: 1}},
			Options: options.Index().SetName("author_email"),
		},
	})
	return err
}

// ensureBorrowedBooks: email key for the per-user count, and the unique
// (email, book_id) pair that makes the duplicate-borrow invariant hold
// even under concurrent admission attempts.
func ensureBorrowedBooks(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("borrowed_books").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "book_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email_book"),
		},
	})
	return err
}
