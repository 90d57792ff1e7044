package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"BrokerBridge/internal/orders"
)

// OrderMonitor polls the open-orders sweep and reports transitions. Status
// pushes cover only orders placed by this session; the poll also catches
// orders placed elsewhere and orders that leave the book entirely.
type OrderMonitor struct {
	session  *Session
	interval time.Duration
	log      zerolog.Logger

	// OnChange fires when an order appears or its status string changes.
	OnChange func(orders.OpenOrderInfo)
	// OnGone fires when a previously seen order leaves the book, with its
	// last observed status.
	OnGone func(orderID int, lastStatus string)

	mu       sync.Mutex
	statuses map[int]string

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewOrderMonitor creates a monitor polling at interval (minimum 50ms).
func NewOrderMonitor(s *Session, interval time.Duration) *OrderMonitor {
	if interval < 50*time.Millisecond {
		interval = 50 * time.Millisecond
	}
	return &OrderMonitor{
		session:  s,
		interval: interval,
		log:      s.log.With().Str("component", "order_monitor").Logger(),
		statuses: make(map[int]string),
		done:     make(chan struct{}),
	}
}

// Start begins polling until Stop or ctx cancellation.
func (m *OrderMonitor) Start(ctx context.Context) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.poll(ctx)
			case <-ctx.Done():
				return
			case <-m.done:
				return
			}
		}
	}()
}

// Stop halts polling and joins the poll goroutine.
func (m *OrderMonitor) Stop() {
	m.once.Do(func() { close(m.done) })
	m.wg.Wait()
}

func (m *OrderMonitor) poll(ctx context.Context) {
	open, err := m.session.OpenOrders(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("open orders poll failed")
		return
	}

	m.mu.Lock()
	seen := make(map[int]bool, len(open))
	var changed []orders.OpenOrderInfo
	for _, o := range open {
		seen[o.OrderID] = true
		if m.statuses[o.OrderID] != o.Status {
			m.statuses[o.OrderID] = o.Status
			changed = append(changed, o)
		}
	}
	type gone struct {
		id     int
		status string
	}
	var vanished []gone
	for id, status := range m.statuses {
		if !seen[id] {
			vanished = append(vanished, gone{id, status})
			delete(m.statuses, id)
		}
	}
	m.mu.Unlock()

	for _, o := range changed {
		m.log.Info().Int("order_id", o.OrderID).Str("status", o.Status).Msg("order status changed")
		if m.OnChange != nil {
			m.OnChange(o)
		}
	}
	for _, g := range vanished {
		m.log.Info().Int("order_id", g.id).Str("last_status", g.status).Msg("order left the book")
		if m.OnGone != nil {
			m.OnGone(g.id, g.status)
		}
	}
}
