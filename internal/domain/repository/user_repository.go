package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/bcit-connector/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no record matches the lookup key.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is the store's unique-constraint violation on users.email.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the interface for user-related storage operations.
type UserRepository interface {
	// Create assigns u.ID and u.CreatedAt. It returns ErrDuplicateEmail when
	// the email is already taken, regardless of any earlier existence check.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Delete removes the user and, through the store, the user's profile.
	Delete(ctx context.Context, id string) error
}
