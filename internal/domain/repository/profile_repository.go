package repository

import (
	"context"

	"github.com/oksasatya/bcit-connector/internal/domain/entity"
)

// ProfileRepository stores one profile per user.
type ProfileRepository interface {
	// GetByUserID returns the profile with its owner populated, or ErrNotFound.
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
	List(ctx context.Context) ([]entity.Profile, error)
	// Upsert creates the profile or replaces its scalar fields, skills and social links.
	Upsert(ctx context.Context, p *entity.Profile) error
	// SaveEntries persists the experience and education lists of an existing profile.
	SaveEntries(ctx context.Context, p *entity.Profile) error
	DeleteByUserID(ctx context.Context, userID string) error
}
