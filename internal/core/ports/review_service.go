package ports

import (
	"context"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/policy"
)

// CreateReviewInput carries a new review. The reviewer is always the actor.
type CreateReviewInput struct {
	BusinessUserID string
	Rating         int
	Description    string
}

// ReviewService defines use-case operations for reviews.
type ReviewService interface {
	Create(ctx context.Context, actor policy.Actor, input CreateReviewInput) (*domain.Review, error)
	List(ctx context.Context, actor policy.Actor, filter ListReviewsFilter) ([]*domain.Review, error)
	Update(ctx context.Context, actor policy.Actor, id string, patch domain.ReviewPatch) (*domain.Review, error)
	Delete(ctx context.Context, actor policy.Actor, id string) error
}

// StatsService computes the public platform summary.
type StatsService interface {
	BaseInfo(ctx context.Context) (*domain.BaseInfo, error)
}
