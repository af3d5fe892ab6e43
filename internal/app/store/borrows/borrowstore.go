package borrowstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/shelfhub/internal/app/system/normalize"
	"github.com/dalemusser/shelfhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate is returned when an insert collides with an existing
// (email, book_id) record. The unique index makes this check atomic even
// when two requests race.
var ErrDuplicate = errors.New("borrow record already exists for this email and book")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("borrowed_books")}
}

// CountByEmail returns the number of active borrow records for email.
func (s *Store) CountByEmail(ctx context.Context, email string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"email": normalize.Email(email)})
}

// Exists reports whether an active record exists for (email, bookID).
func (s *Store) Exists(ctx context.Context, email, bookID string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email), "book_id": bookID}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// Insert stores a new borrow record, stamping borrowed_at.
// Returns ErrDuplicate when the (email, book_id) pair already exists.
func (s *Store) Insert(ctx context.Context, rec models.BorrowRecord) (models.BorrowRecord, error) {
	rec.ID = primitive.NewObjectID()
	rec.Email = normalize.Email(rec.Email)
	rec.BorrowedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		if wafflemongo.IsDup(err) {
			return models.BorrowRecord{}, ErrDuplicate
		}
		return models.BorrowRecord{}, err
	}
	return rec, nil
}

// DeleteByID deletes one borrow record (a return). Returns the number of
// documents deleted.
func (s *Store) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByEmail returns all borrow records for email, newest first.
func (s *Store) ListByEmail(ctx context.Context, email string) ([]models.BorrowRecord, error) {
	return s.list(ctx, bson.M{"email": normalize.Email(email)})
}

// List returns all borrow records, newest first.
func (s *Store) List(ctx context.Context) ([]models.BorrowRecord, error) {
	return s.list(ctx, bson.M{})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.BorrowRecord, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "borrowed_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.BorrowRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Count returns the total number of active borrow records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
