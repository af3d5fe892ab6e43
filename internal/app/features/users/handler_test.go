package users_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/shelfhub/internal/app/features/users"
	userstore "github.com/dalemusser/shelfhub/internal/app/store/users"
	"github.com/dalemusser/shelfhub/internal/app/system/auth"
	"github.com/dalemusser/shelfhub/internal/app/system/authz"
	"github.com/dalemusser/shelfhub/internal/domain/models"
	"github.com/dalemusser/shelfhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// newRouter mounts the user routes with a verifier that accepts any
// bearer token as the given email. Admin checks run against the real
// user store, so tests control roles through fixtures.
func newRouter(t *testing.T, email string) (chi.Router, *testutil.Fixtures) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	h := users.NewHandler(db, zap.NewNop())
	guard := authz.New(userstore.New(db))

	verifier := &testutil.FakeVerifier{Claims: &auth.Claims{UID: "uid-1", Email: email}}
	authed := []func(http.Handler) http.Handler{
		auth.RequireToken(verifier, zap.NewNop()),
		auth.RequireEmail,
	}

	r := chi.NewRouter()
	users.Register(r, h, authed, auth.RequireAdmin(guard, zap.NewNop()))
	return r, testutil.NewFixtures(t, db)
}

func do(r chi.Router, method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer test-token")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreate_DefaultsAndConflict(t *testing.T) {
	r, _ := newRouter(t, "reader@example.com")

	rec := do(r, "POST", "/users", `{"email":"reader@example.com","name":"Reader"}`, false)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d; body: %s", rec.Code, rec.Body)
	}

	var created struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if created.Role != models.RoleUser {
		t.Errorf("role: got %q, want %q", created.Role, models.RoleUser)
	}

	rec = do(r, "POST", "/users", `{"email":"Reader@Example.com"}`, false)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate status: got %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestCreate_Validation(t *testing.T) {
	r, _ := newRouter(t, "reader@example.com")

	if rec := do(r, "POST", "/users", `{"name":"No Email"}`, false); rec.Code != http.StatusBadRequest {
		t.Errorf("missing email status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if rec := do(r, "POST", "/users", `{"email":"x@example.com","role":"owner"}`, false); rec.Code != http.StatusBadRequest {
		t.Errorf("bad role status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGet(t *testing.T) {
	r, f := newRouter(t, "reader@example.com")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f.CreateUser(ctx, "reader@example.com", models.RoleUser)

	rec := do(r, "GET", "/users/reader@example.com", "", false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = do(r, "GET", "/users/reader@example.com", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rec.Code, rec.Body)
	}

	rec = do(r, "GET", "/users/ghost@example.com", "", true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing user status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestUpdate_RequiresToken(t *testing.T) {
	r, f := newRouter(t, "reader@example.com")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f.CreateUser(ctx, "reader@example.com", models.RoleUser)

	rec := do(r, "PATCH", "/users/reader@example.com", `{"name":"Renamed"}`, false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = do(r, "PATCH", "/users/reader@example.com", `{"name":"Renamed"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated status: got %d; body: %s", rec.Code, rec.Body)
	}

	got := do(r, "GET", "/users/reader@example.com", "", true)
	var u struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(got.Body.Bytes(), &u); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if u.Name != "Renamed" {
		t.Errorf("name: got %q, want Renamed", u.Name)
	}
}

func TestDelete_CascadesToBooks(t *testing.T) {
	r, f := newRouter(t, "admin@example.com")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f.CreateAdmin(ctx, "admin@example.com")
	f.CreateUser(ctx, "author@example.com", models.RoleUser)
	book := f.CreateBook(ctx, "Dune", "scifi", "author@example.com", 4.5, 3)
	keep := f.CreateBook(ctx, "Emma", "classic", "other@example.com", 3.5, 1)

	rec := do(r, "DELETE", "/users/author@example.com", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rec.Code, rec.Body)
	}

	if got := do(r, "GET", "/users/author@example.com", "", true); got.Code != http.StatusNotFound {
		t.Errorf("deleted user still present, status %d", got.Code)
	}

	// The user's books go with the account; others stay.
	db := f.DB()
	n, err := db.Collection("books").CountDocuments(ctx, bson.M{"_id": book.ID})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 0 {
		t.Error("expected author's book to be deleted")
	}
	n, err = db.Collection("books").CountDocuments(ctx, bson.M{"_id": keep.ID})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Error("expected other author's book to remain")
	}
}

func TestList_AdminOnly(t *testing.T) {
	r, f := newRouter(t, "reader@example.com")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f.CreateUser(ctx, "reader@example.com", models.RoleUser)

	rec := do(r, "GET", "/users", "", true)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin status: got %d, want %d", rec.Code, http.StatusForbidden)
	}

	rec = do(r, "DELETE", "/users/reader@example.com", "", true)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin delete status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestList_AsAdmin(t *testing.T) {
	r, f := newRouter(t, "admin@example.com")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f.CreateAdmin(ctx, "admin@example.com")
	f.CreateUser(ctx, "reader@example.com", models.RoleUser)

	rec := do(r, "GET", "/users", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rec.Code, rec.Body)
	}

	var list []json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("got %d users, want 2", len(list))
	}
}
