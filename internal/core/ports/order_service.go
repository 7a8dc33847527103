package ports

import (
	"context"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/policy"
)

// CreateOrderInput carries the package to buy. The customer is always the actor.
type CreateOrderInput struct {
	OfferDetailID  string
	IdempotencyKey string
}

// OrderResult is returned after creating an order.
type OrderResult struct {
	Order *domain.Order
	// AlreadyExisted is true when the Idempotency-Key matched an earlier order.
	AlreadyExisted bool
}

// OrderService defines use-case operations for orders.
type OrderService interface {
	Create(ctx context.Context, actor policy.Actor, input CreateOrderInput) (*OrderResult, error)
	Get(ctx context.Context, actor policy.Actor, id string) (*domain.Order, error)
	List(ctx context.Context, actor policy.Actor) ([]*domain.Order, error)
	Update(ctx context.Context, actor policy.Actor, id string, patch domain.OrderPatch) (*domain.Order, error)
	Delete(ctx context.Context, actor policy.Actor, id string) error
	CountForBusiness(ctx context.Context, actor policy.Actor, businessUserID string, status domain.OrderStatus) (int64, error)
}

// OrderEventService records order events in the audit trail.
type OrderEventService interface {
	Process(ctx context.Context, event domain.OrderEvent) error
}
