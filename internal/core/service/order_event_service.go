package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
	"github.com/coderr/marketplace/internal/pkg/metrics"
)

type orderEventService struct {
	repo ports.OrderEventRepository
	log  zerolog.Logger
}

// NewOrderEventService returns an OrderEventService implementation.
func NewOrderEventService(repo ports.OrderEventRepository, log zerolog.Logger) ports.OrderEventService {
	return &orderEventService{repo: repo, log: log}
}

// Process appends a single order event to the audit trail.
func (s *orderEventService) Process(ctx context.Context, event domain.OrderEvent) error {
	start := time.Now()
	defer func() {
		metrics.OrderEventProcessingDuration.WithLabelValues(event.Type).Observe(time.Since(start).Seconds())
	}()

	if event.OrderID == "" || event.Type == "" {
		metrics.OrderEventsErrorsTotal.WithLabelValues(event.Type).Inc()
		return fmt.Errorf("process order event: %w: order id and type are required", domain.ErrInvalidInput)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		metrics.OrderEventsErrorsTotal.WithLabelValues(event.Type).Inc()
		return fmt.Errorf("process order event: %w", err)
	}

	metrics.OrderEventsProcessedTotal.WithLabelValues(event.Type).Inc()
	s.log.Debug().
		Str("order_id", event.OrderID).
		Str("type", event.Type).
		Str("status", string(event.Status)).
		Msg("order event recorded")
	return nil
}
