package ports

import (
	"context"

	"github.com/coderr/marketplace/internal/core/domain"
)

// ListOffersFilter carries all query parameters for listing offers.
type ListOffersFilter struct {
	CreatorID       string   // optional: owning business user
	MinPrice        *float64 // optional: min_price >= MinPrice
	MaxDeliveryTime *int     // optional: min_delivery_time <= MaxDeliveryTime
	Search          string   // optional: partial match on title or description
	Ordering        string   // field name, "-" prefix for descending
	Page            int      // 1-based
	Limit           int
}

// OfferRepository defines persistence operations for offers and their packages.
type OfferRepository interface {
	Create(ctx context.Context, offer *domain.Offer) error
	FindByID(ctx context.Context, id string) (*domain.Offer, error)
	// FindByPackageID returns the offer that contains the package.
	FindByPackageID(ctx context.Context, packageID string) (*domain.Offer, error)
	Update(ctx context.Context, offer *domain.Offer) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListOffersFilter) ([]*domain.Offer, int64, error)
	Count(ctx context.Context) (int64, error)
}
