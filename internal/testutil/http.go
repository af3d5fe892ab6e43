package testutil

import (
	"context"
	"net/http"

	"github.com/dalemusser/shelfhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// FakeVerifier is an auth.Verifier for tests: it accepts any token and
// returns the configured claims (or the configured error).
type FakeVerifier struct {
	Claims *auth.Claims
	Err    error
}

func (f *FakeVerifier) Verify(_ context.Context, _ string) (*auth.Claims, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return &auth.Claims{UID: f.Claims.UID, Email: f.Claims.Email}, nil
}
