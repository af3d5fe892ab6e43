// Package authz resolves a verified email to the stored role.
//
// The guard is stateless per call: every privileged request pays one
// users-collection lookup, so role changes take effect immediately.
package authz

import (
	"context"
	"errors"

	userstore "github.com/dalemusser/shelfhub/internal/app/store/users"
	"github.com/dalemusser/shelfhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrUserNotFound is returned when no user document exists for the email.
var ErrUserNotFound = errors.New("user not found")

type Guard struct {
	users *userstore.Store
}

func New(users *userstore.Store) *Guard {
	return &Guard{users: users}
}

// Lookup returns the stored role for email, or ErrUserNotFound.
func (g *Guard) Lookup(ctx context.Context, email string) (string, error) {
	u, err := g.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return u.Role, nil
}

// IsAdmin reports whether email resolves to the admin role.
// Unknown users yield (false, ErrUserNotFound).
func (g *Guard) IsAdmin(ctx context.Context, email string) (bool, error) {
	role, err := g.Lookup(ctx, email)
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin, nil
}
