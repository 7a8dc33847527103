package ports

import (
	"context"

	"github.com/coderr/marketplace/internal/core/domain"
)

// UserRepository defines the interface for user account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// ProfileRepository persists the 1:1 profile of each user.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	FindByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	ListByType(ctx context.Context, role domain.Role) ([]*domain.Profile, error)
	CountByType(ctx context.Context, role domain.Role) (int64, error)
}
