package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/policy"
	"github.com/coderr/marketplace/internal/core/ports"
)

func threePackages() []ports.PackageInput {
	return []ports.PackageInput{
		{Title: "Basic", Revisions: 2, DeliveryTimeInDays: 7, Price: 100, Features: []string{"logo"}, OfferType: domain.OfferTypeBasic},
		{Title: "Standard", Revisions: 5, DeliveryTimeInDays: 5, Price: 200, OfferType: domain.OfferTypeStandard},
		{Title: "Premium", Revisions: domain.UnlimitedRevisions, DeliveryTimeInDays: 3, Price: 500, OfferType: domain.OfferTypePremium},
	}
}

func createdOffer(t *testing.T, svc *OfferService) *domain.Offer {
	t.Helper()
	offer, err := svc.Create(context.Background(), businessActor, ports.CreateOfferInput{
		Title:       "Logo design",
		Description: "Any logo",
		Details:     threePackages(),
	})
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}
	return offer
}

func TestOfferService_Create(t *testing.T) {
	repo := newStubOfferRepo()
	svc := NewOfferService(repo, zerolog.Nop())

	offer := createdOffer(t, svc)

	if offer.UserID != businessActor.ID {
		t.Errorf("expected owner %s, got %s", businessActor.ID, offer.UserID)
	}
	if offer.MinPrice != 100 || offer.MinDeliveryTime != 3 {
		t.Errorf("unexpected summary: min_price=%v min_delivery_time=%d", offer.MinPrice, offer.MinDeliveryTime)
	}
	ids := map[string]bool{}
	for _, p := range offer.Details {
		if p.ID == "" || ids[p.ID] {
			t.Fatalf("packages need unique IDs, got %q", p.ID)
		}
		ids[p.ID] = true
		if p.Features == nil {
			t.Errorf("features must never be nil")
		}
	}
	if len(repo.offers) != 1 {
		t.Errorf("expected offer stored")
	}
}

func TestOfferService_Create_OnlyBusiness(t *testing.T) {
	svc := NewOfferService(newStubOfferRepo(), zerolog.Nop())
	in := ports.CreateOfferInput{Title: "x", Details: threePackages()}

	cases := []struct {
		name  string
		actor policy.Actor
		want  error
	}{
		{"customer", customerActor, domain.ErrForbidden},
		{"admin", adminActor, domain.ErrForbidden},
		{"anonymous", anonymousActor(), domain.ErrAuthenticationRequired},
	}
	for _, tc := range cases {
		if _, err := svc.Create(context.Background(), tc.actor, in); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestOfferService_Create_InvalidPackages(t *testing.T) {
	svc := NewOfferService(newStubOfferRepo(), zerolog.Nop())

	dup := threePackages()
	dup[1].OfferType = domain.OfferTypeBasic
	badPrice := threePackages()
	badPrice[0].Price = 0
	badRevisions := threePackages()
	badRevisions[2].Revisions = -2

	cases := map[string][]ports.PackageInput{
		"no packages":        nil,
		"duplicate type":     dup,
		"zero price":         badPrice,
		"revisions below -1": badRevisions,
	}
	for name, details := range cases {
		_, err := svc.Create(context.Background(), businessActor, ports.CreateOfferInput{Title: "x", Details: details})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestOfferService_Update_Owner(t *testing.T) {
	svc := NewOfferService(newStubOfferRepo(), zerolog.Nop())
	offer := createdOffer(t, svc)

	updated, err := svc.Update(context.Background(), businessActor, offer.ID, ports.UpdateOfferInput{
		Title: ptr("Better logos"),
		Details: []ports.PackageInput{
			{Title: "Only", Revisions: 1, DeliveryTimeInDays: 10, Price: 50, OfferType: domain.OfferTypeBasic},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "Better logos" {
		t.Errorf("title not updated: %q", updated.Title)
	}
	if len(updated.Details) != 1 || updated.MinPrice != 50 || updated.MinDeliveryTime != 10 {
		t.Errorf("details not replaced or summary stale: %+v", updated)
	}
	if updated.UserID != businessActor.ID {
		t.Errorf("owner must not change")
	}
}

func TestOfferService_Update_Denied(t *testing.T) {
	svc := NewOfferService(newStubOfferRepo(), zerolog.Nop())
	offer := createdOffer(t, svc)
	in := ports.UpdateOfferInput{Title: ptr("hijacked")}

	if _, err := svc.Update(context.Background(), customerActor, offer.ID, in); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("customer: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(context.Background(), business2Actor, offer.ID, in); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("other business: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(context.Background(), adminActor, offer.ID, in); err != nil {
		t.Errorf("admin: unexpected error %v", err)
	}
	if _, err := svc.Update(context.Background(), businessActor, "missing", in); !errors.Is(err, domain.ErrOfferNotFound) {
		t.Errorf("missing: expected ErrOfferNotFound, got %v", err)
	}
}

func TestOfferService_Delete_AdminOnly(t *testing.T) {
	repo := newStubOfferRepo()
	svc := NewOfferService(repo, zerolog.Nop())
	offer := createdOffer(t, svc)

	if err := svc.Delete(context.Background(), businessActor, offer.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("owner: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), adminActor, offer.ID); err != nil {
		t.Fatalf("admin: unexpected error %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Fatal("expected offer deleted")
	}
}

func TestOfferService_GetPackage(t *testing.T) {
	svc := NewOfferService(newStubOfferRepo(), zerolog.Nop())
	offer := createdOffer(t, svc)
	want := offer.Details[1]

	pkg, err := svc.GetPackage(context.Background(), customerActor, want.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkg.OfferType != want.OfferType || pkg.Price != want.Price {
		t.Errorf("unexpected package %+v", pkg)
	}

	if _, err := svc.GetPackage(context.Background(), customerActor, "nope"); !errors.Is(err, domain.ErrPackageNotFound) {
		t.Errorf("expected ErrPackageNotFound, got %v", err)
	}
}

func TestOfferService_List(t *testing.T) {
	repo := newStubOfferRepo()
	repo.listTotal = 13
	svc := NewOfferService(repo, zerolog.Nop())

	res, err := svc.List(context.Background(), ports.ListOffersInput{Search: "  logo ", Page: 0, Limit: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastFilter.Ordering != "-created_at" {
		t.Errorf("expected default ordering, got %q", repo.lastFilter.Ordering)
	}
	if repo.lastFilter.Search != "logo" {
		t.Errorf("expected trimmed search, got %q", repo.lastFilter.Search)
	}
	if res.Page != 1 || res.Limit != maxPageSize {
		t.Errorf("unexpected paging page=%d limit=%d", res.Page, res.Limit)
	}

	res, _ = svc.List(context.Background(), ports.ListOffersInput{})
	if res.Limit != defaultPageSize || res.TotalPages != 3 {
		t.Errorf("expected 3 pages of %d, got %d of %d", defaultPageSize, res.TotalPages, res.Limit)
	}

	if _, err := svc.List(context.Background(), ports.ListOffersInput{Ordering: "password"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown ordering, got %v", err)
	}
}

func TestOfferService_Update_ReferenceFieldIsImmutable(t *testing.T) {
	svc := NewOfferService(newStubOfferRepo(), zerolog.Nop())
	offer := createdOffer(t, svc)

	_, err := svc.Update(context.Background(), adminActor, offer.ID, ports.UpdateOfferInput{Extra: []string{"user"}})
	if !errors.Is(err, domain.ErrImmutableField) {
		t.Fatalf("expected ErrImmutableField, got %v", err)
	}

	// authentication is still decided first
	_, err = svc.Update(context.Background(), anonymousActor(), offer.ID, ports.UpdateOfferInput{Extra: []string{"user"}})
	if !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
}

func TestOfferService_Update_ImmutableFieldBeforeDetailValidation(t *testing.T) {
	repo := newStubOfferRepo()
	svc := NewOfferService(repo, zerolog.Nop())
	offer := createdOffer(t, svc)

	_, err := svc.Update(context.Background(), businessActor, offer.ID, ports.UpdateOfferInput{
		Details: []ports.PackageInput{{Title: "Broken", Price: 0, OfferType: domain.OfferTypeBasic}},
		Extra:   []string{"user"},
	})
	if !errors.Is(err, domain.ErrImmutableField) {
		t.Fatalf("expected ErrImmutableField, got %v", err)
	}

	_, err = svc.Update(context.Background(), businessActor, offer.ID, ports.UpdateOfferInput{
		Details: []ports.PackageInput{{Title: "Broken", Price: 0, OfferType: domain.OfferTypeBasic}},
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), offer.ID)
	if len(stored.Details) != 3 {
		t.Errorf("rejected patch must not touch details, got %d packages", len(stored.Details))
	}
}

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, defaultPageSize},
		{-3, 500, 1, maxPageSize},
		{2, 10, 2, 10},
		{1 << 62, 6, maxPage, 6},
	}
	for _, tc := range cases {
		page, limit := normalizePage(tc.page, tc.limit)
		if page != tc.wantPage || limit != tc.wantLimit {
			t.Errorf("normalizePage(%d, %d) = (%d, %d), want (%d, %d)",
				tc.page, tc.limit, page, limit, tc.wantPage, tc.wantLimit)
		}
	}
}
