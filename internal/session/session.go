package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"BrokerBridge/internal/gateway"
	"BrokerBridge/internal/observability"
)

// Config tunes one client session.
type Config struct {
	// SyncTimeout bounds every synchronous request wait.
	SyncTimeout time.Duration
	// ConnectTimeout bounds the wait for the gateway's next-valid-id
	// announcement during Connect.
	ConnectTimeout time.Duration
	// Metrics receives session metrics; nil creates a default registry set.
	Metrics *observability.Metrics
	// Logger for the session; a zero value gets the default component logger.
	Logger *zerolog.Logger
}

func (c Config) withDefaults() Config {
	if c.SyncTimeout <= 0 {
		c.SyncTimeout = 6 * time.Second
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 5 * time.Second
	}
	if c.Metrics == nil {
		c.Metrics = observability.NewMetrics()
	}
	if c.Logger == nil {
		log := observability.NewLogger("session")
		c.Logger = &log
	}
	return c
}

// Session is one client connection to the brokerage gateway. It owns the
// dispatch table, the id allocator, the demultiplexer, and the single reader
// goroutine; tearing the session down joins the reader deterministically.
// All state is per-session — nothing process-wide.
type Session struct {
	cfg     Config
	id      uuid.UUID
	log     zerolog.Logger
	metrics *observability.Metrics

	client *gateway.Client
	table  *pendingTable
	ids    *Allocator
	demux  *demux

	mu        sync.Mutex // guards Connect/Disconnect transitions
	running   atomic.Bool
	done      chan struct{}
	wg        sync.WaitGroup
	handshake chan struct{} // closed when next_valid_id arrives
	hsOnce    *sync.Once
}

// New creates a session over the given transport. The session is inert until
// Connect.
func New(transport gateway.Transport, cfg Config) *Session {
	cfg = cfg.withDefaults()

	s := &Session{
		cfg:     cfg,
		id:      uuid.New(),
		metrics: cfg.Metrics,
		ids:     NewAllocator(BaseOrderID),
	}
	s.log = cfg.Logger.With().Str("session", s.id.String()[:8]).Logger()
	s.client = gateway.NewClient(transport, s.log)
	s.table = newPendingTable(s.log, s.metrics)
	s.demux = newDemux(s)
	return s
}

// ID returns the bridge-generated session identity used in logs.
func (s *Session) ID() uuid.UUID { return s.id }

// NextID draws a fresh unique request/order id.
func (s *Session) NextID() int { return s.ids.Next() }

// Connect opens the transport, starts the reader goroutine, and returns once
// the gateway's next-valid-id handshake lands. Connecting an already-open
// session is a no-op returning nil.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		s.log.Info().Msg("already connected")
		return nil
	}

	if err := s.client.Transport().Connect(ctx); err != nil {
		return fmt.Errorf("transport connect: %w", err)
	}

	s.done = make(chan struct{})
	s.handshake = make(chan struct{})
	s.hsOnce = &sync.Once{}
	s.running.Store(true)
	s.metrics.Connected.Set(1)

	s.wg.Add(1)
	go s.run()

	select {
	case <-s.handshake:
		s.log.Info().Int("next_order_id", s.ids.Current()).Msg("connected, handshake complete")
		return nil
	case <-ctx.Done():
		s.teardownLocked()
		return fmt.Errorf("connect: %w", ctx.Err())
	case <-time.After(s.cfg.ConnectTimeout):
		s.teardownLocked()
		return fmt.Errorf("connect: no next-valid-id announcement within %s", s.cfg.ConnectTimeout)
	}
}

// Disconnect stops the reader goroutine and closes the transport. Safe to
// call repeatedly; no goroutine survives the call.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.Load() {
		return
	}
	s.teardownLocked()
	s.log.Info().Msg("disconnected")
}

func (s *Session) teardownLocked() {
	s.running.Store(false)
	// Closing the transport closes its events channel, which wakes the
	// reader out of its blocking receive.
	s.client.Transport().Close()
	close(s.done)
	s.wg.Wait()
	s.metrics.Connected.Set(0)
}

// run is the reader goroutine: the sole consumer of the transport's event
// channel and the only writer into completion records.
func (s *Session) run() {
	defer s.wg.Done()
	events := s.client.Transport().Events()

	for {
		select {
		case raw, ok := <-events:
			if !ok {
				s.log.Warn().Msg("transport event channel closed, reader stopping")
				return
			}
			s.dispatchRaw(raw)
		case <-s.done:
			s.log.Debug().Msg("reader stopped")
			return
		}
	}
}

func (s *Session) dispatchRaw(raw gateway.RawEvent) {
	ev, err := gateway.ParseRawEvent(raw)
	if err != nil {
		s.metrics.ParseErrors.Inc()
		s.log.Warn().Err(err).Str("type", raw.Type).Msg("dropping unparseable frame")
		return
	}
	s.metrics.EventsProcessed.WithLabelValues(raw.Type).Inc()
	s.demux.dispatch(ev)
}

// announceNextValidID is called by the demultiplexer when the gateway
// announces its id floor.
func (s *Session) announceNextValidID(orderID int) {
	s.ids.Advance(orderID)
	s.hsOnce.Do(func() { close(s.handshake) })
}

// Client exposes the outbound call surface for collaborators that submit
// their own fire-and-forget requests.
func (s *Session) Client() *gateway.Client { return s.client }

// InFlight returns the number of registered, undelivered requests.
func (s *Session) InFlight() int { return s.table.size() }

// IsConnected reports whether the session has a live reader and transport.
func (s *Session) IsConnected() bool {
	return s.running.Load() && s.client.Transport().IsConnected()
}

// EnsureConnected dials until the handshake completes or ctx expires,
// disconnecting between failed attempts.
func EnsureConnected(ctx context.Context, s *Session) error {
	attempt := 0
	for {
		attempt++
		s.log.Info().Int("attempt", attempt).Msg("attempting connection")

		err := s.Connect(ctx)
		if err == nil {
			return nil
		}
		s.Disconnect()
		if attempt > 1 {
			s.metrics.Reconnects.Inc()
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("ensure connected after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(time.Second):
		}
	}
}
