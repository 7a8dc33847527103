package ports

import (
	"context"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/policy"
)

// ProfileService reads and edits user profiles.
type ProfileService interface {
	Get(ctx context.Context, actor policy.Actor, userID string) (*domain.Profile, error)
	Update(ctx context.Context, actor policy.Actor, userID string, patch domain.ProfilePatch) (*domain.Profile, error)
	ListByType(ctx context.Context, actor policy.Actor, role domain.Role) ([]*domain.Profile, error)
}
