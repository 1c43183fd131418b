package services

import (
	"context"
	"errors"
	"strings"

	"allai/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already in use")
)

// UserStore persists accounts keyed by email.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, user models.User) error
	// EnsureSchema creates the backing table if it does not exist yet.
	EnsureSchema(ctx context.Context) error
}

// NormalizeEmail is the key form used by every store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
