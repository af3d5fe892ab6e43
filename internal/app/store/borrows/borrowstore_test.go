package borrowstore_test

import (
	"errors"
	"testing"

	borrowstore "github.com/dalemusser/shelfhub/internal/app/store/borrows"
	"github.com/dalemusser/shelfhub/internal/domain/models"
	"github.com/dalemusser/shelfhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestInsert_StampsAndNormalizes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := borrowstore.New(db)

	rec, err := store.Insert(ctx, models.BorrowRecord{
		Email:  "Reader@Example.COM",
		BookID: primitive.NewObjectID().Hex(),
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if rec.Email != "reader@example.com" {
		t.Errorf("email not normalized: got %q", rec.Email)
	}
	if rec.BorrowedAt.IsZero() {
		t.Error("expected borrowed_at to be stamped")
	}
	if rec.ID.IsZero() {
		t.Error("expected an id to be assigned")
	}
}

func TestInsert_DuplicatePairRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := borrowstore.New(db)
	bookID := primitive.NewObjectID().Hex()

	if _, err := store.Insert(ctx, models.BorrowRecord{Email: "reader@example.com", BookID: bookID}); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	// The unique (email, book_id) index enforces this even for inserts
	// that race past the Exists check.
	_, err := store.Insert(ctx, models.BorrowRecord{Email: "reader@example.com", BookID: bookID})
	if !errors.Is(err, borrowstore.ErrDuplicate) {
		t.Errorf("got %v, want ErrDuplicate", err)
	}
}

func TestCountByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateBorrow(ctx, "reader@example.com", primitive.NewObjectID().Hex())
	f.CreateBorrow(ctx, "reader@example.com", primitive.NewObjectID().Hex())
	f.CreateBorrow(ctx, "other@example.com", primitive.NewObjectID().Hex())

	store := borrowstore.New(db)

	n, err := store.CountByEmail(ctx, "Reader@Example.com")
	if err != nil {
		t.Fatalf("CountByEmail failed: %v", err)
	}
	if n != 2 {
		t.Errorf("count: got %d, want 2", n)
	}
}

func TestExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	bookID := primitive.NewObjectID().Hex()
	f.CreateBorrow(ctx, "reader@example.com", bookID)

	store := borrowstore.New(db)

	ok, err := store.Exists(ctx, "reader@example.com", bookID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !ok {
		t.Error("expected record to exist")
	}

	ok, err = store.Exists(ctx, "reader@example.com", primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if ok {
		t.Error("expected no record for other book")
	}
}

func TestDeleteByID_FreesThePair(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := borrowstore.New(db)
	bookID := primitive.NewObjectID().Hex()

	rec, err := store.Insert(ctx, models.BorrowRecord{Email: "reader@example.com", BookID: bookID})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	deleted, err := store.DeleteByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted: got %d, want 1", deleted)
	}

	// After a return the same pair may be borrowed again.
	if _, err := store.Insert(ctx, models.BorrowRecord{Email: "reader@example.com", BookID: bookID}); err != nil {
		t.Errorf("re-borrow after return failed: %v", err)
	}
}

func TestDeleteByID_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := borrowstore.New(db)

	deleted, err := store.DeleteByID(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted: got %d, want 0", deleted)
	}
}

func TestListByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateBorrow(ctx, "reader@example.com", primitive.NewObjectID().Hex())
	f.CreateBorrow(ctx, "reader@example.com", primitive.NewObjectID().Hex())
	f.CreateBorrow(ctx, "other@example.com", primitive.NewObjectID().Hex())

	store := borrowstore.New(db)

	recs, err := store.ListByEmail(ctx, "reader@example.com")
	if err != nil {
		t.Fatalf("ListByEmail failed: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("got %d records, want 2", len(recs))
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d records, want 3", len(all))
	}

	total, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if total != 3 {
		t.Errorf("count: got %d, want 3", total)
	}
}
