package ports

import (
	"context"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/policy"
)

// PackageInput describes one tier of an offer on create or replace.
type PackageInput struct {
	Title              string
	Revisions          int
	DeliveryTimeInDays int
	Price              float64
	Features           []string
	OfferType          domain.OfferType
}

// CreateOfferInput carries all data needed to create a new offer.
type CreateOfferInput struct {
	Title       string
	Image       string
	Description string
	Details     []PackageInput
}

// UpdateOfferInput is a partial update. A non-nil Details replaces every package.
type UpdateOfferInput struct {
	Title       *string
	Image       *string
	Description *string
	Details     []PackageInput
	Extra       []string
}

// ListOffersInput carries the parameters of the public offer list.
type ListOffersInput struct {
	CreatorID       string
	MinPrice        *float64
	MaxDeliveryTime *int
	Search          string
	Ordering        string
	Page            int
	Limit           int
}

// ListOffersResult is returned by List.
type ListOffersResult struct {
	Items      []*domain.Offer
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// OfferService defines use-case operations for offers.
type OfferService interface {
	Create(ctx context.Context, actor policy.Actor, input CreateOfferInput) (*domain.Offer, error)
	Get(ctx context.Context, actor policy.Actor, id string) (*domain.Offer, error)
	GetPackage(ctx context.Context, actor policy.Actor, packageID string) (*domain.Package, error)
	Update(ctx context.Context, actor policy.Actor, id string, input UpdateOfferInput) (*domain.Offer, error)
	Delete(ctx context.Context, actor policy.Actor, id string) error
	List(ctx context.Context, input ListOffersInput) (*ListOffersResult, error)
}
