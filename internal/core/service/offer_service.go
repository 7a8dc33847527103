package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/policy"
	"github.com/coderr/marketplace/internal/core/ports"
	"github.com/coderr/marketplace/internal/pkg/metrics"
)

const (
	defaultPageSize = 6
	maxPageSize     = 100
	maxPage         = 1_000_000
)

var offerOrderings = map[string]bool{
	"created_at": true, "-created_at": true,
	"updated_at": true, "-updated_at": true,
	"min_price": true, "-min_price": true,
}

type OfferService struct {
	repo   ports.OfferRepository
	logger zerolog.Logger
}

func NewOfferService(repo ports.OfferRepository, logger zerolog.Logger) *OfferService {
	return &OfferService{repo: repo, logger: logger}
}

// Create stores a new offer owned by actor. Only business users may create offers.
func (s *OfferService) Create(ctx context.Context, actor policy.Actor, in ports.CreateOfferInput) (*domain.Offer, error) {
	if _, err := authorize(s.logger, policy.Request{
		Actor:    actor,
		Action:   policy.ActionCreate,
		Resource: policy.ResourceOffer,
	}, nil); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	details, err := buildPackages(in.Details)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	offer := &domain.Offer{
		UserID:      actor.ID,
		Title:       in.Title,
		Image:       in.Image,
		Description: in.Description,
		Details:     details,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	offer.Summarize()

	if err := s.repo.Create(ctx, offer); err != nil {
		s.logger.Error().Err(err).Msg("failed to create offer")
		return nil, err
	}

	metrics.OffersCreatedTotal.Inc()
	s.logger.Info().Str("offer_id", offer.ID).Str("user_id", actor.ID).Msg("offer created")
	return offer, nil
}

func (s *OfferService) Get(ctx context.Context, actor policy.Actor, id string) (*domain.Offer, error) {
	offer, err := s.repo.FindByID(ctx, id)
	missing, err := lookup(err)
	if err != nil {
		return nil, err
	}
	if _, err := authorize(s.logger, policy.Request{
		Actor:    actor,
		Action:   policy.ActionRead,
		Resource: policy.ResourceOffer,
		Target:   policy.Target{Missing: missing},
	}, domain.ErrOfferNotFound); err != nil {
		return nil, err
	}
	return offer, nil
}

// GetPackage returns a single package by its ID.
func (s *OfferService) GetPackage(ctx context.Context, actor policy.Actor, packageID string) (*domain.Package, error) {
	offer, err := s.repo.FindByPackageID(ctx, packageID)
	missing, err := lookup(err)
	if err != nil {
		return nil, err
	}
	if _, err := authorize(s.logger, policy.Request{
		Actor:    actor,
		Action:   policy.ActionRead,
		Resource: policy.ResourceOffer,
		Target:   policy.Target{Missing: missing},
	}, domain.ErrPackageNotFound); err != nil {
		return nil, err
	}

	pkg, ok := offer.Package(packageID)
	if !ok {
		return nil, domain.ErrPackageNotFound
	}
	return &pkg, nil
}

// Update applies a partial update. Replacing the details recomputes the
// offer's minimum price and delivery time.
func (s *OfferService) Update(ctx context.Context, actor policy.Actor, id string, in ports.UpdateOfferInput) (*domain.Offer, error) {
	offer, err := s.repo.FindByID(ctx, id)
	missing, err := lookup(err)
	if err != nil {
		return nil, err
	}

	target := policy.Target{Missing: missing}
	if offer != nil {
		target.OwnerID = offer.UserID
	}
	fields, err := authorize(s.logger, policy.Request{
		Actor:    actor,
		Action:   policy.ActionUpdate,
		Resource: policy.ResourceOffer,
		Target:   target,
	}, domain.ErrOfferNotFound)
	if err != nil {
		return nil, err
	}

	patch := domain.OfferPatch{Title: in.Title, Image: in.Image, Description: in.Description, Extra: in.Extra}
	if in.Details != nil {
		patch.Details = []domain.Package{}
	}
	// field permissions are settled before any value is validated
	if err := fields.Check(patch.Fields()); err != nil {
		return nil, err
	}
	if in.Details != nil {
		if patch.Details, err = buildPackages(in.Details); err != nil {
			return nil, err
		}
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
		}
		offer.Title = *patch.Title
	}
	if patch.Image != nil {
		offer.Image = *patch.Image
	}
	if patch.Description != nil {
		offer.Description = *patch.Description
	}
	if patch.Details != nil {
		offer.Details = patch.Details
	}
	offer.Summarize()
	offer.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, offer); err != nil {
		return nil, fmt.Errorf("update offer: %w", err)
	}

	s.logger.Info().Str("offer_id", offer.ID).Str("actor_id", actor.ID).Msg("offer updated")
	return offer, nil
}

func (s *OfferService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	offer, err := s.repo.FindByID(ctx, id)
	missing, err := lookup(err)
	if err != nil {
		return err
	}

	target := policy.Target{Missing: missing}
	if offer != nil {
		target.OwnerID = offer.UserID
	}
	if _, err := authorize(s.logger, policy.Request{
		Actor:    actor,
		Action:   policy.ActionDelete,
		Resource: policy.ResourceOffer,
		Target:   target,
	}, domain.ErrOfferNotFound); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	s.logger.Info().Str("offer_id", id).Str("actor_id", actor.ID).Msg("offer deleted")
	return nil
}

// List returns a page of offers. The offer list is public and takes no actor.
func (s *OfferService) List(ctx context.Context, in ports.ListOffersInput) (*ports.ListOffersResult, error) {
	ordering := in.Ordering
	if ordering == "" {
		ordering = "-created_at"
	}
	if !offerOrderings[ordering] {
		return nil, fmt.Errorf("%w: unsupported ordering %q", domain.ErrInvalidInput, ordering)
	}

	page, limit := normalizePage(in.Page, in.Limit)
	items, total, err := s.repo.List(ctx, ports.ListOffersFilter{
		CreatorID:       in.CreatorID,
		MinPrice:        in.MinPrice,
		MaxDeliveryTime: in.MaxDeliveryTime,
		Search:          strings.TrimSpace(in.Search),
		Ordering:        ordering,
		Page:            page,
		Limit:           limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListOffersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// buildPackages validates package input and assigns fresh IDs.
func buildPackages(in []ports.PackageInput) ([]domain.Package, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: at least one offer detail is required", domain.ErrInvalidInput)
	}

	seen := make(map[domain.OfferType]bool, len(in))
	out := make([]domain.Package, 0, len(in))
	for i, p := range in {
		switch {
		case !p.OfferType.Valid():
			return nil, fmt.Errorf("%w: details[%d]: offer_type must be basic, standard or premium", domain.ErrInvalidInput, i)
		case seen[p.OfferType]:
			return nil, fmt.Errorf("%w: details[%d]: duplicate offer_type %q", domain.ErrInvalidInput, i, p.OfferType)
		case strings.TrimSpace(p.Title) == "":
			return nil, fmt.Errorf("%w: details[%d]: title is required", domain.ErrInvalidInput, i)
		case p.Price <= 0:
			return nil, fmt.Errorf("%w: details[%d]: price must be greater than 0", domain.ErrInvalidInput, i)
		case p.DeliveryTimeInDays <= 0:
			return nil, fmt.Errorf("%w: details[%d]: delivery_time_in_days must be greater than 0", domain.ErrInvalidInput, i)
		case p.Revisions < domain.UnlimitedRevisions:
			return nil, fmt.Errorf("%w: details[%d]: revisions must be -1 or more", domain.ErrInvalidInput, i)
		}
		seen[p.OfferType] = true

		features := p.Features
		if features == nil {
			features = []string{}
		}
		out = append(out, domain.Package{
			ID:                 uuid.NewString(),
			Title:              p.Title,
			Revisions:          p.Revisions,
			DeliveryTimeInDays: p.DeliveryTimeInDays,
			Price:              p.Price,
			Features:           features,
			OfferType:          p.OfferType,
		})
	}
	return out, nil
}
