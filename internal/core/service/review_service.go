package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/policy"
	"github.com/coderr/marketplace/internal/core/ports"
	"github.com/coderr/marketplace/internal/pkg/metrics"
)

var reviewOrderings = map[string]bool{
	"updated_at": true, "-updated_at": true,
	"rating": true, "-rating": true,
}

type ReviewService struct {
	reviews ports.ReviewRepository
	users   ports.UserRepository
	logger  zerolog.Logger
}

func NewReviewService(reviews ports.ReviewRepository, users ports.UserRepository, logger zerolog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, users: users, logger: logger}
}

// Create stores a review written by the actor about a business user. A
// customer can review each business at most once.
func (s *ReviewService) Create(ctx context.Context, actor policy.Actor, in ports.CreateReviewInput) (*domain.Review, error) {
	business, err := s.users.FindByID(ctx, in.BusinessUserID)
	missing, err := lookup(err)
	if err != nil {
		return nil, err
	}
	if business != nil && business.Role != domain.RoleBusiness {
		missing = true
	}

	var duplicate bool
	if !missing && actor.Authenticated() {
		if duplicate, err = s.reviews.Exists(ctx, in.BusinessUserID, actor.ID); err != nil {
			return nil, fmt.Errorf("check review: %w", err)
		}
	}

	if _, err := authorize(s.logger, policy.Request{
		Actor:    actor,
		Action:   policy.ActionCreate,
		Resource: policy.ResourceReview,
		Target:   policy.Target{OwnerID: in.BusinessUserID, Missing: missing, Duplicate: duplicate},
	}, domain.ErrUserNotFound); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrDuplicateReview
		}
		return nil, err
	}

	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	review := &domain.Review{
		BusinessUserID: in.BusinessUserID,
		ReviewerID:     actor.ID,
		Rating:         in.Rating,
		Description:    strings.TrimSpace(in.Description),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrDuplicateReview
		}
		s.logger.Error().Err(err).Msg("failed to create review")
		return nil, err
	}

	metrics.ReviewsCreatedTotal.Inc()
	s.logger.Info().
		Str("review_id", review.ID).
		Str("business_id", review.BusinessUserID).
		Str("reviewer_id", review.ReviewerID).
		Msg("review created")
	return review, nil
}

func (s *ReviewService) List(ctx context.Context, actor policy.Actor, filter ports.ListReviewsFilter) ([]*domain.Review, error) {
	if _, err := authorize(s.logger, policy.Request{
		Actor:    actor,
		Action:   policy.ActionRead,
		Resource: policy.ResourceReview,
	}, nil); err != nil {
		return nil, err
	}

	if filter.Ordering != "" && !reviewOrderings[filter.Ordering] {
		return nil, fmt.Errorf("%w: unsupported ordering %q", domain.ErrInvalidInput, filter.Ordering)
	}
	return s.reviews.List(ctx, filter)
}

// Update lets the author or an admin change rating and description.
func (s *ReviewService) Update(ctx context.Context, actor policy.Actor, id string, patch domain.ReviewPatch) (*domain.Review, error) {
	review, err := s.reviews.FindByID(ctx, id)
	missing, err := lookup(err)
	if err != nil {
		return nil, err
	}

	target := policy.Target{Missing: missing}
	if review != nil {
		target.OwnerID = review.ReviewerID
	}
	fields, err := authorize(s.logger, policy.Request{
		Actor:    actor,
		Action:   policy.ActionUpdate,
		Resource: policy.ResourceReview,
		Target:   target,
	}, domain.ErrReviewNotFound)
	if err != nil {
		return nil, err
	}

	if err := fields.Check(patch.Fields()); err != nil {
		return nil, err
	}
	if patch.Rating != nil {
		if err := validateRating(*patch.Rating); err != nil {
			return nil, err
		}
		review.Rating = *patch.Rating
	}
	if patch.Description != nil {
		review.Description = strings.TrimSpace(*patch.Description)
	}
	review.UpdatedAt = time.Now().UTC()

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	s.logger.Info().Str("review_id", review.ID).Str("actor_id", actor.ID).Msg("review updated")
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	review, err := s.reviews.FindByID(ctx, id)
	missing, err := lookup(err)
	if err != nil {
		return err
	}

	target := policy.Target{Missing: missing}
	if review != nil {
		target.OwnerID = review.ReviewerID
	}
	if _, err := authorize(s.logger, policy.Request{
		Actor:    actor,
		Action:   policy.ActionDelete,
		Resource: policy.ResourceReview,
		Target:   target,
	}, domain.ErrReviewNotFound); err != nil {
		return err
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	s.logger.Info().Str("review_id", id).Str("actor_id", actor.ID).Msg("review deleted")
	return nil
}

func validateRating(r int) error {
	if r < domain.MinRating || r > domain.MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", domain.ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}
	return nil
}
