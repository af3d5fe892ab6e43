package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/shelfhub/internal/app/system/auth"
	"github.com/dalemusser/shelfhub/internal/app/system/authz"
	"go.uber.org/zap"
)

type fakeVerifier struct {
	claims *auth.Claims
	err    error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*auth.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

type fakeRoleChecker struct {
	isAdmin bool
	err     error
}

func (f *fakeRoleChecker) IsAdmin(_ context.Context, _ string) (bool, error) {
	return f.isAdmin, f.err
}

func okHandler(t *testing.T, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse body %q: %v", rec.Body.String(), err)
	}
	return body.Message
}

func TestRequireToken_MissingHeader(t *testing.T) {
	var called bool
	mw := auth.RequireToken(&fakeVerifier{}, zap.NewNop())
	h := mw(okHandler(t, &called))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
	if called {
		t.Error("handler should not run without a token")
	}
}

func TestRequireToken_NonBearerHeader(t *testing.T) {
	var called bool
	mw := auth.RequireToken(&fakeVerifier{}, zap.NewNop())
	h := mw(okHandler(t, &called))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
	if called {
		t.Error("handler should not run with a non-bearer header")
	}
}

func TestRequireToken_BadToken(t *testing.T) {
	var called bool
	mw := auth.RequireToken(&fakeVerifier{err: errors.New("expired")}, zap.NewNop())
	h := mw(okHandler(t, &called))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
	if called {
		t.Error("handler should not run with an invalid token")
	}
}

func TestRequireToken_InjectsNormalizedClaims(t *testing.T) {
	mw := auth.RequireToken(&fakeVerifier{claims: &auth.Claims{UID: "u1", Email: "  Reader@Example.COM "}}, zap.NewNop())

	var got *auth.Claims
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentClaims(r)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got == nil {
		t.Fatal("claims not injected")
	}
	if got.Email != "reader@example.com" {
		t.Errorf("email: got %q, want normalized form", got.Email)
	}
}

func TestRequireEmail_MissingEmailClaim(t *testing.T) {
	var called bool
	mw := auth.RequireToken(&fakeVerifier{claims: &auth.Claims{UID: "u1"}}, zap.NewNop())
	h := mw(auth.RequireEmail(okHandler(t, &called)))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
	if called {
		t.Error("handler should not run without an email claim")
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		checker    *fakeRoleChecker
		wantStatus int
		wantMsg    string
	}{
		{"admin passes", &fakeRoleChecker{isAdmin: true}, http.StatusOK, ""},
		{"non-admin forbidden", &fakeRoleChecker{isAdmin: false}, http.StatusForbidden, "Forbidden access! Admin privileges required."},
		{"unknown user 404", &fakeRoleChecker{err: authz.ErrUserNotFound}, http.StatusNotFound, "User not found in database."},
		{"store fault 500", &fakeRoleChecker{err: errors.New("socket closed")}, http.StatusInternalServerError, "Internal server error during admin verification."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			tokenMW := auth.RequireToken(&fakeVerifier{claims: &auth.Claims{UID: "u1", Email: "admin@example.com"}}, zap.NewNop())
			adminMW := auth.RequireAdmin(tt.checker, zap.NewNop())
			h := tokenMW(adminMW(okHandler(t, &called)))

			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("Authorization", "Bearer good-token")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && !called {
				t.Error("handler should have run")
			}
			if tt.wantMsg != "" {
				if got := message(t, rec); got != tt.wantMsg {
					t.Errorf("message: got %q, want %q", got, tt.wantMsg)
				}
			}
		})
	}
}
