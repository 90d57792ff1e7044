package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// NATS subject layout. Requests are published per type; inbound events fan in
// on a per-session wildcard where the last token is the event type.
//
//	<prefix>.req.<request_type>
//	<prefix>.evt.<client_id>.<event_type>
const defaultSubjectPrefix = "broker.gw"

// NATSTransport is a core NATS pub/sub adapter to a brokerage gateway.
// Market data is transient, so plain pub/sub is used rather than JetStream:
// a tick redelivered seconds later is worthless.
type NATSTransport struct {
	url      string
	prefix   string
	clientID string
	log      zerolog.Logger

	mu     sync.Mutex
	conn   *nats.Conn
	sub    *nats.Subscription
	events chan RawEvent
	closed bool

	// chanMu orders handler pushes against the channel close in Close:
	// Unsubscribe does not wait for an in-flight handler.
	chanMu sync.RWMutex
}

// NewNATSTransport creates a transport for the gateway reachable at url.
// clientID distinguishes concurrent sessions on the event subject space.
func NewNATSTransport(url, clientID string, log zerolog.Logger) *NATSTransport {
	return &NATSTransport{
		url:      url,
		prefix:   defaultSubjectPrefix,
		clientID: clientID,
		log:      log,
	}
}

// Connect dials NATS and subscribes to the session's event subjects.
func (t *NATSTransport) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil && t.conn.IsConnected() {
		return nil
	}

	conn, err := nats.Connect(t.url,
		nats.Name("brokerbridge-"+t.clientID),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			t.log.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			t.log.Info().Msg("nats reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("nats connect %s: %w", t.url, err)
	}

	events := make(chan RawEvent, 1024)
	subject := fmt.Sprintf("%s.evt.%s.>", t.prefix, t.clientID)

	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		tokens := strings.Split(msg.Subject, ".")
		raw := RawEvent{
			Type:     tokens[len(tokens)-1],
			Data:     msg.Data,
			Received: time.Now(),
		}
		t.chanMu.RLock()
		defer t.chanMu.RUnlock()
		if t.closed {
			return
		}
		select {
		case events <- raw:
		default:
			// Reader is stalled; dropping beats blocking the NATS
			// delivery goroutine.
			t.log.Warn().Str("type", raw.Type).Msg("event channel full, frame dropped")
		}
	})
	if err != nil {
		conn.Close()
		return fmt.Errorf("nats subscribe %s: %w", subject, err)
	}

	t.conn = conn
	t.sub = sub
	t.events = events
	t.chanMu.Lock()
	t.closed = false
	t.chanMu.Unlock()
	t.log.Info().Str("url", t.url).Str("subject", subject).Msg("nats transport connected")
	return nil
}

// Send publishes one request envelope.
func (t *NATSTransport) Send(ctx context.Context, req Request) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	if conn == nil || !conn.IsConnected() {
		return fmt.Errorf("nats transport not connected")
	}

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request %s: %w", req.Type, err)
	}
	subject := fmt.Sprintf("%s.req.%s", t.prefix, req.Type)
	if err := conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Events returns the inbound frame channel.
func (t *NATSTransport) Events() <-chan RawEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.events
}

// IsConnected reports whether the NATS connection is up.
func (t *NATSTransport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil && t.conn.IsConnected()
}

// Close unsubscribes, closes the connection, and closes the events channel.
func (t *NATSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.chanMu.RLock()
	alreadyClosed := t.closed
	t.chanMu.RUnlock()
	if alreadyClosed {
		return nil
	}

	if t.sub != nil {
		t.sub.Unsubscribe()
		t.sub = nil
	}
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}

	t.chanMu.Lock()
	t.closed = true
	if t.events != nil {
		close(t.events)
	}
	t.chanMu.Unlock()
	t.log.Info().Msg("nats transport closed")
	return nil
}
