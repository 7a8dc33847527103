package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/coderr/marketplace/internal/core/domain"
)

type stubStatsService struct{}

func (stubStatsService) BaseInfo(context.Context) (*domain.BaseInfo, error) {
	return &domain.BaseInfo{ReviewCount: 2, AverageRating: 4.5, OfferCount: 3, BusinessProfileCount: 1}, nil
}

func TestStatsHandler_BaseInfo(t *testing.T) {
	h := NewStatsHandler(stubStatsService{})
	c, rec := newContext(http.MethodGet, "/api/base-info", "")

	if err := h.BaseInfo(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	want := `{"review_count":2,"average_rating":4.5,"offer_count":3,"business_profile_count":1}` + "\n"
	if rec.Body.String() != want {
		t.Fatalf("expected %s, got %s", want, rec.Body.String())
	}
}
