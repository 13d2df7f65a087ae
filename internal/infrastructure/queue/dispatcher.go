// Package queue moves best-effort side effects off the request path.
package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/clientdesk/portal/internal/api/metrics"
	"github.com/clientdesk/portal/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ActivitySink persists one audit entry.
type ActivitySink interface {
	LogActivity(ctx context.Context, a *domain.Activity) error
}

// Dispatcher writes audit entries to a sink from a fixed set of workers. The
// worker is chosen by hashing the entry's client id, so entries for one client
// are written in the order they were enqueued.
type Dispatcher struct {
	workers []chan domain.Activity
	sink    ActivitySink
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ActivitySink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Activity, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Activity, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. ctx is passed to every sink call;
// workers exit once Close has drained their queue.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an entry to the worker responsible for its client. It never
// blocks: when that worker's queue is full, or the dispatcher is closed, the
// entry is dropped and counted.
func (d *Dispatcher) Enqueue(a domain.Activity) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(a, "closed")
		return
	}
	select {
	case d.workers[d.shardIndex(a.ClientID)] <- a:
	default:
		d.drop(a, "queue full")
	}
}

// Close stops accepting entries and waits for queued ones to be written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a client id deterministically to a worker index.
func (d *Dispatcher) shardIndex(clientID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(clientID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) drop(a domain.Activity, reason string) {
	metrics.SideEffectFailuresTotal.WithLabelValues("activity").Inc()
	d.log.Warn().Str("action", a.Action).Str("entity_id", a.EntityID).Str("reason", reason).Msg("activity dropped")
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Activity) {
	defer d.wg.Done()
	for a := range ch {
		if err := d.sink.LogActivity(ctx, &a); err != nil {
			metrics.SideEffectFailuresTotal.WithLabelValues("activity").Inc()
			d.log.Warn().Err(err).
				Str("action", a.Action).
				Str("entity_id", a.EntityID).
				Int("worker_id", id).
				Msg("activity not recorded")
		}
	}
}
