package bookstore

import (
	"context"
	"time"

	"github.com/dalemusser/shelfhub/internal/app/system/normalize"
	"github.com/dalemusser/shelfhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("books")}
}

// List returns one page of books, optionally filtered by category, plus
// the total count for the filter. page is 1-based.
func (s *Store) List(ctx context.Context, category string, page, limit int) ([]models.Book, int64, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	return s.page(ctx, filter, page, limit)
}

// ListByAuthor returns one page of books posted by the given author email.
func (s *Store) ListByAuthor(ctx context.Context, email string, page, limit int) ([]models.Book, int64, error) {
	return s.page(ctx, bson.M{"author_email": normalize.Email(email)}, page, limit)
}

func (s *Store) page(ctx context.Context, filter bson.M, page, limit int) ([]models.Book, int64, error) {
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := int64(page-1) * int64(limit)
	opts := options.Find().
		SetSkip(skip).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var books []models.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// GetByID loads a book by ObjectID. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var b models.Book
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByIDs loads all books whose ObjectID is in ids.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Book, error) {
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var books []models.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// Insert stores a new book with normalized fields and timestamps.
func (s *Store) Insert(ctx context.Context, b models.Book) (models.Book, error) {
	b.ID = primitive.NewObjectID()
	b.Title = normalize.Title(b.Title)
	b.AuthorEmail = normalize.Email(b.AuthorEmail)

	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, b); err != nil {
		return models.Book{}, err
	}
	return b, nil
}

// Update holds the fields a PATCH may change. Nil fields are left untouched.
type Update struct {
	Title       *string
	AuthorName  *string
	Category    *string
	Rating      *float64
	Quantity    *int
	Description *string
	CoverURL    *string
}

// UpdateByID applies upd to the book, stamping updated_at. Returns the
// number of matched documents (0 when the book does not exist).
func (s *Store) UpdateByID(ctx context.Context, id primitive.ObjectID, upd Update) (int64, error) {
	set := bson.M{"updated_at": time.Now()}
	if upd.Title != nil {
		set["title"] = normalize.Title(*upd.Title)
	}
	if upd.AuthorName != nil {
		set["author_name"] = *upd.AuthorName
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Rating != nil {
		set["rating"] = *upd.Rating
	}
	if upd.Quantity != nil {
		set["quantity"] = *upd.Quantity
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.CoverURL != nil {
		set["cover_url"] = *upd.CoverURL
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// DeleteByID deletes one book. Returns the number of documents deleted.
func (s *Store) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByAuthor deletes every book posted by the given author email.
// Used by the user-deletion cascade.
func (s *Store) DeleteByAuthor(ctx context.Context, email string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"author_email": normalize.Email(email)})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// TopRated returns the limit highest-rated books.
func (s *Store) TopRated(ctx context.Context, limit int) ([]models.Book, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var books []models.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// AuthorCount is one row of the top-contributors aggregation.
type AuthorCount struct {
	AuthorEmail string `bson:"_id" json:"author_email"`
	AuthorName  string `bson:"author_name" json:"author_name,omitempty"`
	BooksCount  int64  `bson:"books_count" json:"books_count"`
}

// TopAuthors groups books by author email and returns the limit authors
// with the most posted books.
func (s *Store) TopAuthors(ctx context.Context, limit int) ([]AuthorCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$author_email"},
			{Key: "books_count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "author_name", Value: bson.D{{Key: "$first", Value: "$author_name"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "books_count", Value: -1}}}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []AuthorCount
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CategoryCount is one row of the per-category aggregation.
type CategoryCount struct {
	Category string `bson:"_id" json:"category"`
	Count    int64  `bson:"count" json:"count"`
}

// Stats holds the book-side numbers of the statistics dashboard.
// Total borrow counts live in the borrows store.
type Stats struct {
	TotalBooks   int64           `json:"totalBooks"`
	UniqueTitles int64           `json:"totalUniqueBooks"`
	TotalStock   int64           `json:"totalStock"`
	ByCategory   []CategoryCount `json:"booksByCategory"`
}

// Stats computes the dashboard aggregates: total count, distinct titles,
// summed stock quantity, and per-category counts.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	titles, err := s.c.Distinct(ctx, "title", bson.M{})
	if err != nil {
		return nil, err
	}

	stock, err := s.sumQuantity(ctx)
	if err != nil {
		return nil, err
	}

	byCategory, err := s.countByCategory(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalBooks:   total,
		UniqueTitles: int64(len(titles)),
		TotalStock:   stock,
		ByCategory:   byCategory,
	}, nil
}

func (s *Store) sumQuantity(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_stock", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		TotalStock int64 `bson:"total_stock"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].TotalStock, nil
}

func (s *Store) countByCategory(ctx context.Context) ([]CategoryCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []CategoryCount
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
