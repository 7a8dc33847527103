package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
	"github.com/coderr/marketplace/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes order events to a fixed set of workers using consistent
// hashing on the order ID, so the audit trail of one order is written in order.
type Dispatcher struct {
	workers []chan domain.OrderEvent
	service ports.OrderEventService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.OrderEventService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.OrderEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.OrderEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands an event to the worker responsible for its order. It never
// blocks; when the worker's buffer is full the event is dropped and logged.
func (d *Dispatcher) Enqueue(event domain.OrderEvent) {
	idx := d.shardIndex(event.OrderID)
	select {
	case d.workers[idx] <- event:
		metrics.OrderEventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.OrderEventsErrorsTotal.WithLabelValues(event.Type).Inc()
		d.log.Warn().
			Str("order_id", event.OrderID).
			Str("type", event.Type).
			Int("worker_id", idx).
			Msg("order event queue full, event dropped")
	}
}

// shardIndex maps an order ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(orderID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(orderID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.OrderEvent) {
	defer d.wg.Done()
	depth := metrics.OrderEventsQueueDepth.WithLabelValues(strconv.Itoa(id))
	// detached from ctx so a shutdown does not abort a half-written record
	procCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			// flush what is already buffered, then stop
			for {
				select {
				case event := <-ch:
					depth.Dec()
					d.process(procCtx, id, event)
				default:
					return
				}
			}
		case event := <-ch:
			depth.Dec()
			d.process(procCtx, id, event)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, event domain.OrderEvent) {
	if err := d.service.Process(ctx, event); err != nil {
		d.log.Error().Err(err).
			Str("order_id", event.OrderID).
			Str("type", event.Type).
			Int("worker_id", id).
			Msg("order event processing failed")
	}
}
