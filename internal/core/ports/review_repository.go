package ports

import (
	"context"

	"github.com/coderr/marketplace/internal/core/domain"
)

// ListReviewsFilter carries all query parameters for listing reviews.
type ListReviewsFilter struct {
	BusinessUserID string
	ReviewerID     string
	Ordering       string // updated_at, rating, optionally "-" prefixed
}

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	// Create returns domain.ErrDuplicateReview when the reviewer already
	// reviewed the business.
	Create(ctx context.Context, review *domain.Review) error
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	Exists(ctx context.Context, businessUserID, reviewerID string) (bool, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListReviewsFilter) ([]*domain.Review, error)
	// Summary returns the number of reviews and their average rating.
	Summary(ctx context.Context) (int64, float64, error)
}
