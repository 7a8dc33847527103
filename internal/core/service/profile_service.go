package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/policy"
	"github.com/coderr/marketplace/internal/core/ports"
)

type ProfileService struct {
	repo   ports.ProfileRepository
	logger zerolog.Logger
}

func NewProfileService(repo ports.ProfileRepository, logger zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, logger: logger}
}

func (s *ProfileService) Get(ctx context.Context, actor policy.Actor, userID string) (*domain.Profile, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	missing, err := lookup(err)
	if err != nil {
		return nil, err
	}

	if _, err := authorize(s.logger, policy.Request{
		Actor:    actor,
		Action:   policy.ActionRead,
		Resource: policy.ResourceProfile,
		Target:   policy.Target{Missing: missing},
	}, domain.ErrProfileNotFound); err != nil {
		return nil, err
	}
	return profile, nil
}

// Update applies patch to the profile of userID. Only the owner or an admin may
// do so, and only the display fields can change.
func (s *ProfileService) Update(ctx context.Context, actor policy.Actor, userID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	missing, err := lookup(err)
	if err != nil {
		return nil, err
	}

	target := policy.Target{Missing: missing}
	if profile != nil {
		target.OwnerID = profile.UserID
	}
	fields, err := authorize(s.logger, policy.Request{
		Actor:    actor,
		Action:   policy.ActionUpdate,
		Resource: policy.ResourceProfile,
		Target:   target,
	}, domain.ErrProfileNotFound)
	if err != nil {
		return nil, err
	}
	if err := fields.Check(patch.Fields()); err != nil {
		return nil, err
	}

	patch.Apply(profile)
	profile.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.logger.Info().Str("user_id", profile.UserID).Str("actor_id", actor.ID).Msg("profile updated")
	return profile, nil
}

// ListByType returns every profile of the given role. Only customer and
// business profiles are listed.
func (s *ProfileService) ListByType(ctx context.Context, actor policy.Actor, role domain.Role) ([]*domain.Profile, error) {
	if _, err := authorize(s.logger, policy.Request{
		Actor:    actor,
		Action:   policy.ActionRead,
		Resource: policy.ResourceProfile,
	}, nil); err != nil {
		return nil, err
	}
	if !role.Registrable() {
		return nil, fmt.Errorf("%w: unknown profile type %q", domain.ErrInvalidInput, role)
	}
	return s.repo.ListByType(ctx, role)
}
