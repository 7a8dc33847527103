package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/coderr/marketplace/internal/core/domain"
)

type stubStatsCache struct {
	info   *domain.BaseInfo
	getErr error
	sets   int
}

func (c *stubStatsCache) Get(_ context.Context) (*domain.BaseInfo, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.info, c.info != nil, nil
}

func (c *stubStatsCache) Set(_ context.Context, info *domain.BaseInfo) error {
	c.info = info
	c.sets++
	return nil
}

func newStatsFixture(cache StatsCache) *StatsService {
	reviews := newStubReviewRepo()
	reviews.count, reviews.avg = 3, 4.666666
	offers := newStubOfferRepo(seededOffer())
	profiles := newStubProfileRepo(
		&domain.Profile{UserID: "b1", Type: domain.RoleBusiness},
		&domain.Profile{UserID: "b2", Type: domain.RoleBusiness},
		&domain.Profile{UserID: "c1", Type: domain.RoleCustomer},
	)
	return NewStatsService(reviews, offers, profiles, cache, zerolog.Nop())
}

func TestStatsService_BaseInfo(t *testing.T) {
	cache := &stubStatsCache{}
	svc := newStatsFixture(cache)

	info, err := svc.BaseInfo(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.BaseInfo{ReviewCount: 3, AverageRating: 4.67, OfferCount: 1, BusinessProfileCount: 2}
	if *info != want {
		t.Fatalf("got %+v, want %+v", *info, want)
	}
	if cache.sets != 1 {
		t.Fatalf("expected result cached")
	}
}

func TestStatsService_BaseInfo_CacheHit(t *testing.T) {
	cached := &domain.BaseInfo{ReviewCount: 99}
	cache := &stubStatsCache{info: cached}
	svc := newStatsFixture(cache)

	info, err := svc.BaseInfo(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.ReviewCount != 99 || cache.sets != 0 {
		t.Fatalf("expected cached value, got %+v", info)
	}
}

func TestStatsService_BaseInfo_CacheErrorFallsThrough(t *testing.T) {
	svc := newStatsFixture(&stubStatsCache{getErr: errors.New("redis down")})

	info, err := svc.BaseInfo(context.Background())
	if err != nil {
		t.Fatalf("cache errors must not fail the request: %v", err)
	}
	if info.OfferCount != 1 {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestStatsService_BaseInfo_NoCache(t *testing.T) {
	svc := newStatsFixture(nil)

	if _, err := svc.BaseInfo(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
