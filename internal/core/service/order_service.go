package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/policy"
	"github.com/coderr/marketplace/internal/core/ports"
	"github.com/coderr/marketplace/internal/pkg/metrics"
)

// IdempotencyStore remembers which order an Idempotency-Key produced (Redis).
type IdempotencyStore interface {
	Lookup(ctx context.Context, scope, key string) (string, bool, error)
	Remember(ctx context.Context, scope, key, orderID string) error
}

// OrderEventPublisher hands order events to the audit pipeline without blocking
// the request on persistence.
type OrderEventPublisher interface {
	Enqueue(event domain.OrderEvent)
}

type OrderService struct {
	orders ports.OrderRepository
	offers ports.OfferRepository
	users  ports.UserRepository
	idem   IdempotencyStore
	events OrderEventPublisher
	logger zerolog.Logger
}

func NewOrderService(
	orders ports.OrderRepository,
	offers ports.OfferRepository,
	users ports.UserRepository,
	idem IdempotencyStore,
	events OrderEventPublisher,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders: orders,
		offers: offers,
		users:  users,
		idem:   idem,
		events: events,
		logger: logger,
	}
}

// Create places an order for one package of an offer. The customer of the order
// is always the actor. If an idempotency key is provided and already seen for
// this actor, the earlier order is returned without side effects.
func (s *OrderService) Create(ctx context.Context, actor policy.Actor, in ports.CreateOrderInput) (*ports.OrderResult, error) {
	if in.IdempotencyKey != "" && actor.Authenticated() {
		if existing := s.replay(ctx, actor.ID, in.IdempotencyKey); existing != nil {
			return &ports.OrderResult{Order: existing, AlreadyExisted: true}, nil
		}
	}

	offer, err := s.offers.FindByPackageID(ctx, in.OfferDetailID)
	missing, err := lookup(err)
	if err != nil {
		return nil, err
	}
	target := policy.Target{Missing: missing}
	if offer != nil {
		target.OwnerID = offer.UserID
	}
	if _, err := authorize(s.logger, policy.Request{
		Actor:    actor,
		Action:   policy.ActionCreate,
		Resource: policy.ResourceOrder,
		Target:   target,
	}, domain.ErrPackageNotFound); err != nil {
		return nil, err
	}

	pkg, ok := offer.Package(in.OfferDetailID)
	if !ok {
		return nil, domain.ErrPackageNotFound
	}

	now := time.Now().UTC()
	order := &domain.Order{
		OfferID:            offer.ID,
		OfferDetailID:      pkg.ID,
		CustomerUserID:     actor.ID,
		BusinessUserID:     offer.UserID,
		Title:              pkg.Title,
		Revisions:          pkg.Revisions,
		DeliveryTimeInDays: pkg.DeliveryTimeInDays,
		Price:              pkg.Price,
		Features:           pkg.Features,
		OfferType:          pkg.OfferType,
		Status:             domain.OrderInProgress,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: domain.OrderInProgress, ChangedBy: actor.ID, Timestamp: now},
		},
		IdempotencyKey: in.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	if in.IdempotencyKey != "" {
		if err := s.idem.Remember(ctx, actor.ID, in.IdempotencyKey, order.ID); err != nil {
			s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("failed to store idempotency key")
		}
	}

	metrics.OrdersCreatedTotal.WithLabelValues(string(order.OfferType)).Inc()
	s.publish(order.ID, domain.OrderEventCreated, order.Status, actor.ID)
	s.logger.Info().
		Str("order_id", order.ID).
		Str("customer_id", order.CustomerUserID).
		Str("business_id", order.BusinessUserID).
		Msg("order created")

	return &ports.OrderResult{Order: order}, nil
}

func (s *OrderService) replay(ctx context.Context, actorID, key string) *domain.Order {
	orderID, found, err := s.idem.Lookup(ctx, actorID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}
	existing, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		s.logger.Warn().Err(err).Str("order_id", orderID).Msg("idempotency key points to unreadable order")
		return nil
	}

	metrics.IdempotentReplaysTotal.Inc()
	s.logger.Info().Str("idempotency_key", key).Str("order_id", orderID).Msg("idempotent replay")
	return existing
}

// Get returns an order the actor is party to. Orders of other users are
// reported as missing, matching the list view.
func (s *OrderService) Get(ctx context.Context, actor policy.Actor, id string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	missing, err := lookup(err)
	if err != nil {
		return nil, err
	}
	if _, err := authorize(s.logger, policy.Request{
		Actor:    actor,
		Action:   policy.ActionRead,
		Resource: policy.ResourceOrder,
		Target:   policy.Target{Missing: missing},
	}, domain.ErrOrderNotFound); err != nil {
		return nil, err
	}

	if actor.Role != domain.RoleAdmin && !order.InvolvesUser(actor.ID) {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// List returns the orders the actor is customer or business of; admins see all.
func (s *OrderService) List(ctx context.Context, actor policy.Actor) ([]*domain.Order, error) {
	if _, err := authorize(s.logger, policy.Request{
		Actor:    actor,
		Action:   policy.ActionRead,
		Resource: policy.ResourceOrder,
	}, nil); err != nil {
		return nil, err
	}

	userID := actor.ID
	if actor.Role == domain.RoleAdmin {
		userID = ""
	}
	return s.orders.ListForUser(ctx, userID)
}

// Update changes an order. The business user behind the offer may only set the
// status; admins may also correct the copied package terms. Any known status is
// accepted regardless of the current one.
func (s *OrderService) Update(ctx context.Context, actor policy.Actor, id string, patch domain.OrderPatch) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	missing, err := lookup(err)
	if err != nil {
		return nil, err
	}

	target := policy.Target{Missing: missing}
	if order != nil {
		target.OwnerID = order.BusinessUserID
		target.CustomerID = order.CustomerUserID
	}
	fields, err := authorize(s.logger, policy.Request{
		Actor:    actor,
		Action:   policy.ActionUpdate,
		Resource: policy.ResourceOrder,
		Target:   target,
	}, domain.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}

	changed := patch.Fields()
	if len(changed) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	if err := fields.Check(changed); err != nil {
		return nil, err
	}
	if err := validateOrderPatch(patch); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	patch.Apply(order)
	order.UpdatedAt = now

	var entry *domain.StatusHistoryEntry
	if patch.Status != nil {
		entry = &domain.StatusHistoryEntry{Status: *patch.Status, ChangedBy: actor.ID, Timestamp: now}
		order.StatusHistory = append(order.StatusHistory, *entry)
	}

	if err := s.orders.Update(ctx, order, entry); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	if entry != nil {
		metrics.OrderStatusChangesTotal.WithLabelValues(string(entry.Status)).Inc()
		s.publish(order.ID, domain.OrderEventStatusChanged, entry.Status, actor.ID)
	}
	s.logger.Info().Str("order_id", order.ID).Str("actor_id", actor.ID).Strs("fields", changed).Msg("order updated")
	return order, nil
}

func validateOrderPatch(p domain.OrderPatch) error {
	switch {
	case p.Status != nil && !p.Status.Valid():
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *p.Status)
	case p.Price != nil && *p.Price <= 0:
		return fmt.Errorf("%w: price must be greater than 0", domain.ErrInvalidInput)
	case p.DeliveryTimeInDays != nil && *p.DeliveryTimeInDays <= 0:
		return fmt.Errorf("%w: delivery_time_in_days must be greater than 0", domain.ErrInvalidInput)
	case p.Revisions != nil && *p.Revisions < domain.UnlimitedRevisions:
		return fmt.Errorf("%w: revisions must be -1 or more", domain.ErrInvalidInput)
	case p.OfferType != nil && !p.OfferType.Valid():
		return fmt.Errorf("%w: offer_type must be basic, standard or premium", domain.ErrInvalidInput)
	}
	return nil
}

// Delete removes an order. Only admins may delete orders.
func (s *OrderService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	order, err := s.orders.FindByID(ctx, id)
	missing, err := lookup(err)
	if err != nil {
		return err
	}

	target := policy.Target{Missing: missing}
	if order != nil {
		target.OwnerID = order.BusinessUserID
		target.CustomerID = order.CustomerUserID
	}
	if _, err := authorize(s.logger, policy.Request{
		Actor:    actor,
		Action:   policy.ActionDelete,
		Resource: policy.ResourceOrder,
		Target:   target,
	}, domain.ErrOrderNotFound); err != nil {
		return err
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	s.publish(id, domain.OrderEventDeleted, order.Status, actor.ID)
	s.logger.Info().Str("order_id", id).Str("actor_id", actor.ID).Msg("order deleted")
	return nil
}

// CountForBusiness counts the orders of a business user in the given status.
func (s *OrderService) CountForBusiness(ctx context.Context, actor policy.Actor, businessUserID string, status domain.OrderStatus) (int64, error) {
	if _, err := authorize(s.logger, policy.Request{
		Actor:    actor,
		Action:   policy.ActionRead,
		Resource: policy.ResourceOrder,
	}, nil); err != nil {
		return 0, err
	}

	user, err := s.users.FindByID(ctx, businessUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrUserNotFound
		}
		return 0, err
	}
	if user.Role != domain.RoleBusiness {
		return 0, domain.ErrUserNotFound
	}

	return s.orders.CountByBusinessAndStatus(ctx, businessUserID, status)
}

func (s *OrderService) publish(orderID, eventType string, status domain.OrderStatus, actorID string) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(domain.OrderEvent{
		OrderID:   orderID,
		Type:      eventType,
		Status:    status,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
	})
}
