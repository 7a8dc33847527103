package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
	"github.com/coderr/marketplace/internal/pkg/metrics"
)

// StatsCache keeps the last computed platform summary (Redis).
type StatsCache interface {
	Get(ctx context.Context) (*domain.BaseInfo, bool, error)
	Set(ctx context.Context, info *domain.BaseInfo) error
}

type StatsService struct {
	reviews  ports.ReviewRepository
	offers   ports.OfferRepository
	profiles ports.ProfileRepository
	cache    StatsCache
	logger   zerolog.Logger
}

func NewStatsService(
	reviews ports.ReviewRepository,
	offers ports.OfferRepository,
	profiles ports.ProfileRepository,
	cache StatsCache,
	logger zerolog.Logger,
) *StatsService {
	return &StatsService{reviews: reviews, offers: offers, profiles: profiles, cache: cache, logger: logger}
}

// BaseInfo returns review, offer and business profile totals. Results are
// served from the cache while it is fresh; cache failures fall through to the
// database.
func (s *StatsService) BaseInfo(ctx context.Context) (*domain.BaseInfo, error) {
	if s.cache != nil {
		info, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			metrics.StatsCacheTotal.WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Msg("stats cache read failed")
		case ok:
			metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
			return info, nil
		default:
			metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	count, avg, err := s.reviews.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("review summary: %w", err)
	}
	offers, err := s.offers.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count offers: %w", err)
	}
	businesses, err := s.profiles.CountByType(ctx, domain.RoleBusiness)
	if err != nil {
		return nil, fmt.Errorf("count business profiles: %w", err)
	}

	info := &domain.BaseInfo{
		ReviewCount:          count,
		AverageRating:        math.Round(avg*100) / 100,
		OfferCount:           offers,
		BusinessProfileCount: businesses,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, info); err != nil {
			s.logger.Warn().Err(err).Msg("stats cache write failed")
		}
	}
	return info, nil
}
