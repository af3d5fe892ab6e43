// Package auth verifies bearer credentials and carries the resulting
// claims through the request context.
//
// The verifier is an opaque boundary: it accepts the raw token string and
// yields a verified email claim or fails. Production uses Firebase
// (see firebase.go); tests substitute a fake.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/shelfhub/internal/app/system/authz"
	"github.com/dalemusser/shelfhub/internal/app/system/jsonutil"
	"github.com/dalemusser/shelfhub/internal/app/system/normalize"
	"go.uber.org/zap"
)

// Claims are the verified attributes extracted from a credential.
type Claims struct {
	UID   string
	Email string
}

// Verifier validates an opaque bearer credential.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Claims, error)
}

type ctxKey string

const claimsKey ctxKey = "tokenClaims"

// CurrentClaims returns the verified claims and a found flag.
func CurrentClaims(r *http.Request) (*Claims, bool) {
	c, ok := r.Context().Value(claimsKey).(*Claims)
	return c, ok
}

func withClaims(r *http.Request, c *Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), claimsKey, c))
}

// RequireToken verifies the Authorization bearer token and injects the
// claims into the request context. Missing or malformed headers and
// failed verification both answer 401.
func RequireToken(v Verifier, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				jsonutil.Error(w, http.StatusUnauthorized, "Unauthorized access! Missing or invalid authorization header.")
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			claims, err := v.Verify(r.Context(), token)
			if err != nil {
				log.Warn("token verification failed", zap.Error(err))
				jsonutil.Error(w, http.StatusUnauthorized, "Unauthorized access! Invalid token.")
				return
			}
			claims.Email = normalize.Email(claims.Email)

			next.ServeHTTP(w, withClaims(r, claims))
		})
	}
}

// RequireEmail ensures the verified claims carry an email. Tokens without
// one are forbidden (the identity is real but unusable here).
func RequireEmail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := CurrentClaims(r)
		if !ok || claims.Email == "" {
			jsonutil.Error(w, http.StatusForbidden, "Forbidden access! Email not found in token.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RoleChecker is the slice of the authz guard this middleware needs.
type RoleChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// RequireAdmin resolves the claimed email to its stored role and only
// lets admins through. Unknown users answer 404, other roles 403, and a
// store fault 500 (logged, generic message).
func RequireAdmin(guard RoleChecker, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := CurrentClaims(r)
			if !ok || claims.Email == "" {
				jsonutil.Error(w, http.StatusForbidden, "Forbidden access! Email not found in token.")
				return
			}

			isAdmin, err := guard.IsAdmin(r.Context(), claims.Email)
			if err != nil {
				if errors.Is(err, authz.ErrUserNotFound) {
					jsonutil.Error(w, http.StatusNotFound, "User not found in database.")
					return
				}
				log.Error("admin verification failed", zap.String("email", claims.Email), zap.Error(err))
				jsonutil.Error(w, http.StatusInternalServerError, "Internal server error during admin verification.")
				return
			}
			if !isAdmin {
				jsonutil.Error(w, http.StatusForbidden, "Forbidden access! Admin privileges required.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
