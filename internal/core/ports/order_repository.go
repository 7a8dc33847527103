package ports

import (
	"context"

	"github.com/coderr/marketplace/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// Update stores the mutable fields of order. When entry is non-nil it is
	// appended to the status history in the same write.
	Update(ctx context.Context, order *domain.Order, entry *domain.StatusHistoryEntry) error
	Delete(ctx context.Context, id string) error
	// ListForUser returns orders where userID is customer or business.
	// An empty userID returns every order.
	ListForUser(ctx context.Context, userID string) ([]*domain.Order, error)
	CountByBusinessAndStatus(ctx context.Context, businessUserID string, status domain.OrderStatus) (int64, error)
}

// OrderEventRepository persists the order audit trail.
type OrderEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.OrderEvent) error
}
