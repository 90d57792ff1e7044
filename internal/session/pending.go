package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"BrokerBridge/internal/observability"
)

// completion is the type-erased handle the dispatch table holds for one
// in-flight request. The concrete pending[R] knows the expected result type;
// tryDeliver reports a shape mismatch instead of panicking so the reader
// goroutine never dies on a correlation bug.
type completion interface {
	// tryDeliver attempts to fulfill the record with v.
	// matched=false: v's shape is wrong for this record, nothing happened.
	// matched=true, delivered=false: the record was already fulfilled.
	tryDeliver(v any) (delivered, matched bool)

	// fail fulfills the record with an error instead of a value. Reports
	// false when the record was already fulfilled.
	fail(err error) bool

	category() string
	registeredAt() time.Time
}

// pending is the completion record for one request expecting a result of
// type R. The delivery channel is buffered so the reader goroutine never
// blocks handing over the value; the delivered flag makes fulfillment
// at-most-once even under racing delivery attempts.
type pending[R any] struct {
	ch         chan R
	errc       chan error
	delivered  atomic.Bool
	cat        string
	registered time.Time
}

func newPending[R any](category string) *pending[R] {
	return &pending[R]{
		ch:         make(chan R, 1),
		errc:       make(chan error, 1),
		cat:        category,
		registered: time.Now(),
	}
}

func (p *pending[R]) tryDeliver(v any) (delivered, matched bool) {
	value, ok := v.(R)
	if !ok {
		return false, false
	}
	if !p.delivered.CompareAndSwap(false, true) {
		return false, true
	}
	p.ch <- value
	return true, true
}

func (p *pending[R]) fail(err error) bool {
	if !p.delivered.CompareAndSwap(false, true) {
		return false
	}
	p.errc <- err
	return true
}

func (p *pending[R]) category() string        { return p.cat }
func (p *pending[R]) registeredAt() time.Time { return p.registered }

// pendingTable is the dispatch table: the shared id → completion mapping.
// The single mutex protects only map structure; it is never held across a
// blocking wait, a network send, or a delivery.
type pendingTable struct {
	mu      sync.Mutex
	entries map[int]completion
	log     zerolog.Logger
	metrics *observability.Metrics
}

func newPendingTable(log zerolog.Logger, metrics *observability.Metrics) *pendingTable {
	return &pendingTable{
		entries: make(map[int]completion),
		log:     log,
		metrics: metrics,
	}
}

// register inserts a completion under id. Registering an id already in
// flight is a programming error: it is rejected and logged, never silently
// overwritten, because an overwrite would lose the first caller's result
// permanently.
func (t *pendingTable) register(id int, c completion) error {
	t.mu.Lock()
	_, exists := t.entries[id]
	if !exists {
		t.entries[id] = c
	}
	t.mu.Unlock()

	if exists {
		t.metrics.DuplicateRegistrations.Inc()
		t.log.Error().Int("req_id", id).Msg("duplicate registration rejected")
		return duplicateError(id)
	}
	t.metrics.RequestsInFlight.Inc()
	return nil
}

// lookup returns the completion for id, if registered.
func (t *pendingTable) lookup(id int) (completion, bool) {
	t.mu.Lock()
	c, ok := t.entries[id]
	t.mu.Unlock()
	return c, ok
}

// remove deletes id. Idempotent: removing an absent id is a no-op, so a
// caller-side timeout removal can race a delivery removal harmlessly.
func (t *pendingTable) remove(id int) bool {
	t.mu.Lock()
	_, ok := t.entries[id]
	if ok {
		delete(t.entries, id)
	}
	t.mu.Unlock()

	if ok {
		t.metrics.RequestsInFlight.Dec()
	}
	return ok
}

// deliver fulfills id with the first candidate value whose shape matches the
// registered record, then removes the id. Events for unknown ids are normal
// (late ticks after delivery, account-wide broadcasts) and only counted.
// Multiple candidates cover requests that accept more than one result shape.
func (t *pendingTable) deliver(id int, candidates ...any) bool {
	t.mu.Lock()
	c, ok := t.entries[id]
	if !ok {
		t.mu.Unlock()
		t.metrics.StaleCallbacks.Inc()
		t.log.Debug().Int("req_id", id).Msg("event for unknown id dropped")
		return false
	}

	// Fulfill before the entry becomes observably gone: a caller that loses
	// the timer-vs-delivery remove race must find its value already buffered
	// in the record's channel. The channel send never blocks.
	var delivered, matched bool
	for _, v := range candidates {
		delivered, matched = c.tryDeliver(v)
		if matched {
			break
		}
	}
	if !matched {
		c.fail(mismatchError(id, c.category()))
	}
	delete(t.entries, id)
	t.mu.Unlock()

	t.metrics.RequestsInFlight.Dec()

	if !matched {
		t.metrics.TypeMismatches.Inc()
		t.log.Error().Int("req_id", id).Str("category", c.category()).
			Msg("delivered value shape does not match registered record")
		return false
	}
	if !delivered {
		t.metrics.DoubleDeliveries.Inc()
		t.log.Warn().Int("req_id", id).Msg("record already fulfilled, delivery dropped")
		return false
	}
	t.metrics.RequestsDelivered.WithLabelValues(c.category()).Inc()
	t.metrics.DeliveryLatency.WithLabelValues(c.category()).
		Observe(time.Since(c.registeredAt()).Seconds())
	return true
}

// size returns the number of in-flight registrations.
func (t *pendingTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
