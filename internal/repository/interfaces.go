package repository

import (
	"context"

	"github.com/arlenko/folio/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type ProfileRepository interface {
	// CreatePrivileged provisions a profile through the create_profile
	// database function, which runs with definer rights and bypasses
	// row-level security. Create is the plain insert fallback.
	CreatePrivileged(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	Create(ctx context.Context, profile *domain.Profile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	GetByUsername(ctx context.Context, username string) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
}

type SectionRepository interface {
	Create(ctx context.Context, section *domain.Section) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Section, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]domain.Section, error)
	ListVisibleByProfile(ctx context.Context, profileID uuid.UUID) ([]domain.Section, error)
	CountByProfile(ctx context.Context, profileID uuid.UUID) (int, error)
	Update(ctx context.Context, section *domain.Section) error
	Delete(ctx context.Context, id uuid.UUID) error
}
