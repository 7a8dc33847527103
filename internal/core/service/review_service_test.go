package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

func newReviewSvc(reviews *stubReviewRepo) *ReviewService {
	users := newStubUserRepo(
		&domain.User{ID: businessActor.ID, Role: domain.RoleBusiness},
		&domain.User{ID: customerActor.ID, Role: domain.RoleCustomer},
	)
	return NewReviewService(reviews, users, zerolog.Nop())
}

func existingReview() *domain.Review {
	return &domain.Review{ID: "review-x", BusinessUserID: businessActor.ID, ReviewerID: customerActor.ID, Rating: 4, Description: "good"}
}

func TestReviewService_Create(t *testing.T) {
	repo := newStubReviewRepo()
	svc := newReviewSvc(repo)

	rv, err := svc.Create(context.Background(), customerActor, ports.CreateReviewInput{
		BusinessUserID: businessActor.ID,
		Rating:         5,
		Description:    " great ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rv.ReviewerID != customerActor.ID || rv.Description != "great" {
		t.Fatalf("unexpected review %+v", rv)
	}
}

func TestReviewService_Create_OnePerBusiness(t *testing.T) {
	svc := newReviewSvc(newStubReviewRepo(existingReview()))

	_, err := svc.Create(context.Background(), customerActor, ports.CreateReviewInput{BusinessUserID: businessActor.ID, Rating: 3})
	if !errors.Is(err, domain.ErrDuplicateReview) || !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrDuplicateReview, got %v", err)
	}

	if _, err := svc.Create(context.Background(), customer2Actor, ports.CreateReviewInput{BusinessUserID: businessActor.ID, Rating: 3}); err != nil {
		t.Fatalf("another customer may review: %v", err)
	}
}

func TestReviewService_Create_ConcurrentDuplicate(t *testing.T) {
	repo := newStubReviewRepo()
	repo.raceDuplicate = true
	svc := newReviewSvc(repo)

	_, err := svc.Create(context.Background(), customerActor, ports.CreateReviewInput{BusinessUserID: businessActor.ID, Rating: 3})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict from storage, got %v", err)
	}
}

func TestReviewService_Create_Denied(t *testing.T) {
	svc := newReviewSvc(newStubReviewRepo())
	in := ports.CreateReviewInput{BusinessUserID: businessActor.ID, Rating: 3}

	if _, err := svc.Create(context.Background(), businessActor, in); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("business: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Create(context.Background(), adminActor, in); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("admin: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Create(context.Background(), customerActor, ports.CreateReviewInput{BusinessUserID: customerActor.ID, Rating: 3}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("non-business subject: expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Create(context.Background(), customerActor, ports.CreateReviewInput{BusinessUserID: businessActor.ID, Rating: 6}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("rating 6: expected ErrInvalidInput, got %v", err)
	}
}

func TestReviewService_Update(t *testing.T) {
	repo := newStubReviewRepo(existingReview())
	svc := newReviewSvc(repo)

	rv, err := svc.Update(context.Background(), customerActor, "review-x", domain.ReviewPatch{Rating: ptr(2)})
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if rv.Rating != 2 || repo.reviews["review-x"].Rating != 2 {
		t.Fatalf("rating not stored: %+v", rv)
	}

	if _, err := svc.Update(context.Background(), businessActor, "review-x", domain.ReviewPatch{Rating: ptr(1)}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("reviewed business: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(context.Background(), customer2Actor, "review-x", domain.ReviewPatch{Rating: ptr(1)}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("other customer: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(context.Background(), adminActor, "review-x", domain.ReviewPatch{Description: ptr("moderated")}); err != nil {
		t.Errorf("admin: %v", err)
	}
	if _, err := svc.Update(context.Background(), customerActor, "review-x", domain.ReviewPatch{Rating: ptr(0)}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("rating 0: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Update(context.Background(), customerActor, "ghost", domain.ReviewPatch{Rating: ptr(3)}); !errors.Is(err, domain.ErrReviewNotFound) {
		t.Errorf("missing: expected ErrReviewNotFound, got %v", err)
	}
}

func TestReviewService_Delete(t *testing.T) {
	repo := newStubReviewRepo(existingReview())
	svc := newReviewSvc(repo)

	if err := svc.Delete(context.Background(), businessActor, "review-x"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("business: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), customerActor, "review-x"); err != nil {
		t.Fatalf("author: %v", err)
	}
	if len(repo.reviews) != 0 {
		t.Fatal("review still stored")
	}
	if err := svc.Delete(context.Background(), adminActor, "review-x"); !errors.Is(err, domain.ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound after delete, got %v", err)
	}
}

func TestReviewService_List(t *testing.T) {
	repo := newStubReviewRepo(existingReview())
	svc := newReviewSvc(repo)

	list, err := svc.List(context.Background(), businessActor, ports.ListReviewsFilter{BusinessUserID: businessActor.ID, Ordering: "-rating"})
	if err != nil || len(list) != 1 {
		t.Fatalf("unexpected result: %v %d", err, len(list))
	}
	if repo.lastFilter.Ordering != "-rating" {
		t.Errorf("ordering not passed through: %q", repo.lastFilter.Ordering)
	}
	if _, err := svc.List(context.Background(), businessActor, ports.ListReviewsFilter{Ordering: "reviewer"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.List(context.Background(), anonymousActor(), ports.ListReviewsFilter{}); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Errorf("expected ErrAuthenticationRequired, got %v", err)
	}
}

func TestReviewService_Update_BusinessUserIsImmutable(t *testing.T) {
	svc := newReviewSvc(newStubReviewRepo(existingReview()))

	_, err := svc.Update(context.Background(), customerActor, "review-x", domain.ReviewPatch{Extra: []string{"business_user"}})
	if !errors.Is(err, domain.ErrImmutableField) {
		t.Fatalf("expected ErrImmutableField, got %v", err)
	}
}
